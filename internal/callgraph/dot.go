package callgraph

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
)

// WriteDOT renders the graph in Graphviz DOT format. Node labels carry
// the function id plus file and line range when metadata is available;
// edge labels carry the call count. The graph itself is read-only here.
func WriteDOT(cg *Graph, meta MetaTable, w io.Writer) error {
	out := graph.New(func(id jelly.FunctionID) jelly.FunctionID { return id }, graph.Directed(), graph.Weighted())

	for _, id := range cg.Nodes() {
		label := strconv.Itoa(int(id))
		if m, ok := meta[id]; ok {
			label = fmt.Sprintf("%d\\n%s:%d-%d", id, filepath.Base(m.File), m.Loc.StartRow, m.Loc.EndRow)
		}
		if err := out.AddVertex(id, graph.VertexAttribute("label", label)); err != nil {
			return fmt.Errorf("failed to add node %d: %w", id, err)
		}
	}

	for _, e := range cg.Edges() {
		err := out.AddEdge(e.Src, e.Dst,
			graph.EdgeWeight(e.Weight),
			graph.EdgeAttribute("label", strconv.Itoa(e.Weight)),
		)
		if err != nil {
			return fmt.Errorf("failed to add edge %d->%d: %w", e.Src, e.Dst, err)
		}
	}

	if err := draw.DOT(out, w); err != nil {
		return fmt.Errorf("failed to render DOT: %w", err)
	}
	return nil
}
