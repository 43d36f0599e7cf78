package filedoc

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// Watch observes the backing file for external changes. On every write the
// in-memory tree is reloaded and a MODIFY event is emitted; removal of the
// file emits DELETE. The channel closes when ctx is cancelled.
//
// Writes made through this handle also trigger the watcher; consumers that
// only care about external edits filter on their own bookkeeping.
func (d *Document) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(d.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan core.Event)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer watcher.Close()
		defer close(events)

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				d.handleWatchEvent(ctx, ev, events)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if d.logger != nil {
					d.logger.Error("watch error", "error", err)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if d.logger != nil {
			d.logger.Error("watch worker panic", "error", err)
		}
	}))

	return events, nil
}

func (d *Document) handleWatchEvent(ctx context.Context, ev fsnotify.Event, events chan<- core.Event) {
	// The atomic writer renames temp files into place; ignore their
	// intermediate states and events for unrelated siblings.
	if strings.HasPrefix(filepath.Base(ev.Name), TempFilePrefix) {
		return
	}
	if filepath.Clean(ev.Name) != filepath.Clean(d.path) {
		return
	}

	switch {
	case ev.Has(fsnotify.Remove):
		d.send(ctx, events, core.Event{
			Type:      core.EventDelete,
			Path:      d.path,
			Timestamp: time.Now().Unix(),
		})
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
		if err := d.reload(); err != nil {
			if d.logger != nil {
				d.logger.Error("reload after change failed", "error", err)
			}
			return
		}
		if d.logger != nil {
			d.logger.Debug("document reloaded", "path", d.path)
		}
		d.send(ctx, events, core.Event{
			Type:      core.EventModify,
			Path:      d.path,
			Timestamp: time.Now().Unix(),
		})
	}
}

func (d *Document) send(ctx context.Context, events chan<- core.Event, ev core.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

var _ core.Watchable = (*Document)(nil)
