package analyzer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 500 * time.Millisecond

// Watch rebuilds the analysis whenever the dump file changes, with a
// quiet period so editors writing in several bursts trigger one
// rebuild. The parent directory is watched rather than the file itself
// so rename-and-replace writers are still seen. onRebuild, when non-nil,
// receives the outcome of every triggered rebuild. Watch blocks until
// the context is cancelled.
func (a *Analyzer) Watch(ctx context.Context, dumpPath string, onRebuild func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(dumpPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(dumpPath)
	if err != nil {
		return fmt.Errorf("failed to resolve dump path: %w", err)
	}

	var timerMu sync.Mutex
	var debounce *time.Timer
	defer func() {
		timerMu.Lock()
		if debounce != nil {
			debounce.Stop()
		}
		timerMu.Unlock()
	}()

	trigger := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(debounceWindow, func() {
			err := a.Rebuild(dumpPath)
			if err != nil {
				log.Printf("Warning: rebuild after dump change failed: %v", err)
			}
			if onRebuild != nil {
				onRebuild(err)
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || abs != target {
				continue
			}
			trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: watcher error: %v", err)
		}
	}
}
