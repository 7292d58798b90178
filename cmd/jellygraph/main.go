package main

import "github.com/hayato-n8810/jelly-graph/internal/cli"

func main() {
	cli.Execute()
}
