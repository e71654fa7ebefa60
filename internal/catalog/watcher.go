package catalog

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a File catalog when the underlying file changes.
// Reloads happen between requests: requests that already snapshotted the
// catalog are unaffected.
type Watcher struct {
	catalog *File
	fsw     *fsnotify.Watcher
}

// Watch starts watching the catalog's file for changes. The watch runs
// until ctx is cancelled or Close is called.
func Watch(ctx context.Context, catalog *File) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(catalog.Path()); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{catalog: catalog, fsw: fsw}
	go w.loop(ctx)

	return w, nil
}

// loop processes fsnotify events with a short debounce, since editors
// often emit several writes per save.
func (w *Watcher) loop(ctx context.Context) {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(250 * time.Millisecond)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[catalog] watch error: %v", err)

		case <-pending:
			pending = nil
			if err := w.catalog.Reload(); err != nil {
				log.Printf("[catalog] reload failed, keeping previous snapshot: %v", err)
				continue
			}
			log.Printf("[catalog] reloaded %s", w.catalog.Path())
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
