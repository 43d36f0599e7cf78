package platform

import (
	"fmt"

	"github.com/bowtieworks/automerge-orm/pkg/adapters/filedoc"
	"github.com/bowtieworks/automerge-orm/pkg/adapters/memdoc"
	"github.com/bowtieworks/automerge-orm/pkg/core"
	"github.com/bowtieworks/automerge-orm/pkg/entity"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// Open wires a document adapter, a registry and a manager together.
// The URI argument is adapter-specific: ignored for 'mem', the snapshot
// file path for 'file'.
func Open(uri string, opts ...Option) (*entity.Manager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	doc := o.document
	if doc == nil {
		var err error
		doc, err = newDocument(uri, o)
		if err != nil {
			return nil, err
		}
	}

	reg := o.registry
	if reg == nil {
		reg = schema.NewRegistry()
	}

	return entity.NewManager(doc, reg, entity.Config{Logger: o.logger}), nil
}

func newDocument(uri string, o *options) (core.Document, error) {
	switch o.adapter {
	case "mem":
		return memdoc.New(memdoc.Config{Logger: o.logger}), nil
	case "file":
		if uri == "" {
			return nil, fmt.Errorf("file adapter requires a snapshot path")
		}
		return filedoc.Open(filedoc.Config{
			Path:      uri,
			MustExist: o.mustExist,
			Logger:    o.logger,
		})
	}
	return nil, fmt.Errorf("unknown document adapter: %q", o.adapter)
}
