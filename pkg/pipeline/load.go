package pipeline

import (
	"context"
	"time"

	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/observability"
)

// Load returns opts.Document, or reads the document at opts.Path.
func Load(ctx context.Context, opts Options) (*lio.Document, error) {
	if opts.Document != nil {
		return opts.Document, nil
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Path)
	start := time.Now()

	doc, err := lio.ImportDocument(opts.Path)
	count := 0
	if doc != nil {
		count = len(doc.Nodes())
	}
	hooks.OnLoadComplete(ctx, opts.Path, count, time.Since(start), err)
	return doc, err
}
