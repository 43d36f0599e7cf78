// Package filedoc implements core.Document backed by a single YAML file.
//
// It keeps the whole tree in memory (delegating to memdoc) and persists a
// snapshot after every mutation using an atomic rename, so a crashed
// writer never leaves a half-written document behind. External edits of
// the file can be observed through Watch.
package filedoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bowtieworks/automerge-orm/pkg/adapters/memdoc"
	"github.com/bowtieworks/automerge-orm/pkg/core"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "ormdoc-tmp-"
)

// Config holds the configuration for the file-backed document.
type Config struct {
	// Path of the YAML snapshot file.
	Path string
	// MustExist refuses to create a missing file.
	MustExist bool
	Logger    *slog.Logger
}

// Document is a file-backed document handle.
type Document struct {
	mu     sync.Mutex // serializes persist cycles, not reads
	inner  *memdoc.Document
	path   string
	logger *slog.Logger
}

// Open loads the document at config.Path, creating an empty one unless
// MustExist is set.
func Open(config Config) (*Document, error) {
	d := &Document{
		inner:  memdoc.New(memdoc.Config{Logger: config.Logger}),
		path:   config.Path,
		logger: config.Logger,
	}

	data, err := os.ReadFile(config.Path)
	if os.IsNotExist(err) {
		if config.MustExist {
			return nil, fmt.Errorf("document file does not exist: %s", config.Path)
		}
		if err := d.persist(); err != nil {
			return nil, err
		}
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	if err := d.inner.LoadYAML(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the backing file path.
func (d *Document) Path() string {
	return d.path
}

// Get implements core.Document.
func (d *Document) Get(ctx context.Context, path core.Path) (core.Node, error) {
	return d.inner.Get(ctx, path)
}

// Put implements core.Document and persists the updated snapshot.
func (d *Document) Put(ctx context.Context, path core.Path, n core.Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.inner.Put(ctx, path, n); err != nil {
		return err
	}
	return d.persist()
}

// Delete implements core.Document and persists the updated snapshot.
func (d *Document) Delete(ctx context.Context, path core.Path) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.inner.Delete(ctx, path); err != nil {
		return err
	}
	return d.persist()
}

// Keys implements core.Document.
func (d *Document) Keys(ctx context.Context, path core.Path) ([]string, error) {
	return d.inner.Keys(ctx, path)
}

// Items implements core.Document.
func (d *Document) Items(ctx context.Context, path core.Path) ([]core.Node, error) {
	return d.inner.Items(ctx, path)
}

// Kind implements core.Document.
func (d *Document) Kind(ctx context.Context, path core.Path) (core.Kind, error) {
	return d.inner.Kind(ctx, path)
}

// reload replaces the in-memory tree with the current file contents.
func (d *Document) reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("failed to reload document file: %w", err)
	}
	return d.inner.LoadYAML(data)
}

// persist writes the snapshot atomically; callers hold d.mu.
func (d *Document) persist() error {
	data, err := d.inner.DumpYAML()
	if err != nil {
		return err
	}
	return writeFileAtomic(d.path, data, 0644)
}

// writeFileAtomic writes data to a file atomically by writing to a temp
// file and then renaming it to the target filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up if we fail before rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}

var _ core.Document = (*Document)(nil)
