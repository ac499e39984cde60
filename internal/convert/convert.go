// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Office documents into PDFs.
//
// A Dispatcher classifies the source by extension, probes for an engine,
// and hands the document to the matching backend: a COM automation suite
// (Microsoft Office or WPS) or soffice in headless mode. Progress is
// synthetic and reported through a progress.Sink.
package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/pdiddy/office2pdf/internal/progress"
	"github.com/pdiddy/office2pdf/pkg/types"
)

// Converter converts a single request. *Dispatcher implements it.
type Converter interface {
	Convert(ctx context.Context, req types.Request, sink progress.Sink) (types.Result, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// BatchOptions hooks into a batch run. Every field is optional.
type BatchOptions struct {
	// Sink returns the progress sink for one source.
	Sink func(source string) progress.Sink

	// Done is called after each conversion, successful or not.
	Done func(req types.Request, res types.Result, err error)
}

var (
	okLabel   = color.New(color.FgGreen).SprintFunc()
	failLabel = color.New(color.FgRed).SprintFunc()
)

// ConvertBatch converts sources into outputDir one after another, printing a
// status line per file to w and returning a summary. A failure does not stop
// the batch.
func ConvertBatch(ctx context.Context, c Converter, sources []string, outputDir string, w io.Writer, opts BatchOptions) BatchResult {
	var result BatchResult
	for _, src := range sources {
		req := types.NewRequest(src, outputDir)

		sink := progress.Discard
		if opts.Sink != nil {
			sink = opts.Sink(src)
		}

		res, err := c.Convert(ctx, req, sink)
		if opts.Done != nil {
			opts.Done(req, res, err)
		}

		if err != nil {
			fmt.Fprintf(w, "%s    %s (%v)\n", failLabel("failed:"), filepath.Base(src), err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "%s %s -> %s (%s%s)\n", okLabel("converted:"), filepath.Base(src), res.OutputPath, res.Engine, pageSuffix(res.Pages))
		result.Converted++
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

func pageSuffix(pages int) string {
	switch pages {
	case 0:
		return ""
	case 1:
		return ", 1 page"
	default:
		return fmt.Sprintf(", %d pages", pages)
	}
}
