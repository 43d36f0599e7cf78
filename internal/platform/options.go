package platform

import (
	"log/slog"

	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// options holds the internal configuration for opening a manager.
type options struct {
	document  core.Document
	registry  *schema.Registry
	logger    *slog.Logger
	adapter   string
	mustExist bool
}

// Option defines a functional option for configuring the manager factory.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "mem",
	}
}

// WithDocument injects an existing document handle (e.g. the real store's
// adapter, or a test double). The adapter selection is skipped.
func WithDocument(doc core.Document) Option {
	return func(o *options) {
		o.document = doc
	}
}

// WithRegistry supplies a shared registry. By default every manager owns a
// fresh one, which keeps registrations from leaking across documents.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithLogger sets the logger for the manager and adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the document adapter by name ("mem" or "file").
// Defaults to "mem".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithMustExist makes the file adapter refuse to create a missing file.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}
