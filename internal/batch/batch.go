// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives documents through text extraction and pattern
// extraction, collecting one result per document in input order.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// Messages stored on failed results. They are shown to users as-is.
const (
	MsgNoText       = "לא ניתן לחלץ טקסט מהקובץ"
	MsgFailedPrefix = "שגיאה בעיבוד הקובץ: "
	MsgCancelled    = "העיבוד בוטל"
)

// TextExtractor returns the text of a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// RecordExtractor turns document text into a record of the selected fields.
type RecordExtractor interface {
	Extract(ctx context.Context, text string, sel fields.Selection) types.Record
}

// ProgressFunc is called after each document with its path and the
// percentage of the batch completed so far.
type ProgressFunc func(path string, percent float64)

// Runner processes batches. A Runner may be reused; it holds no per-batch
// state.
type Runner struct {
	Text      TextExtractor
	Extractor RecordExtractor

	// Workers bounds the documents processed at once. Values below 1 mean
	// one, which processes documents strictly in input order.
	Workers int

	Logger *slog.Logger

	// Status receives one human-readable line per document. Nil discards.
	Status io.Writer
}

// outcome is what a worker hands back for the document at index. Workers
// never touch the results slice.
type outcome struct {
	index     int
	record    types.Record
	errMsg    string
	cancelled bool
}

// Run processes paths and returns one result per path, in input order.
// Document failures are recorded on their results and never stop the batch.
// When ctx is cancelled, documents not yet processed are marked cancelled
// and the context error is returned along with the full result list.
func (r *Runner) Run(ctx context.Context, paths []string, sel fields.Selection, progress ProgressFunc) ([]*types.Result, error) {
	results := make([]*types.Result, len(paths))
	for i, p := range paths {
		results[i] = types.NewResult(p)
	}
	if len(paths) == 0 {
		return results, nil
	}

	logger := r.logger()
	status := r.Status
	if status == nil {
		status = io.Discard
	}

	outcomes := make(chan outcome, r.workers(len(paths)))
	go r.dispatch(ctx, paths, sel, outcomes)

	done := 0
	for o := range outcomes {
		res := results[o.index]
		switch {
		case o.cancelled:
			continue
		case o.errMsg != "":
			if err := res.SetError(o.errMsg); err != nil {
				logger.Error("recording failure", "path", res.Path, "error", err)
			}
			fmt.Fprintf(status, "failed:    %s (%s)\n", res.FileName, o.errMsg)
		default:
			if err := res.SetData(o.record); err != nil {
				logger.Error("recording result", "path", res.Path, "error", err)
			}
			fmt.Fprintf(status, "extracted: %s\n", res.FileName)
		}
		done++
		if progress != nil {
			progress(res.Path, float64(done)/float64(len(paths))*100)
		}
	}

	cancelled := 0
	for _, res := range results {
		if res.Status() == types.ResultPending {
			_ = res.SetError(MsgCancelled)
			cancelled++
		}
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("batch cancelled", "processed", done, "cancelled", cancelled, "error", err)
		return results, err
	}
	return results, nil
}

// dispatch feeds documents to a bounded pool and closes out when every
// started document has reported.
func (r *Runner) dispatch(ctx context.Context, paths []string, sel fields.Selection, out chan<- outcome) {
	var g errgroup.Group
	g.SetLimit(r.workers(len(paths)))
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				out <- outcome{index: i, cancelled: true}
				return nil
			}
			o := r.process(ctx, path, sel)
			o.index = i
			out <- o
			return nil
		})
	}
	_ = g.Wait()
	close(out)
}

// process handles one document. A panic from either extractor fails the
// document instead of the batch.
func (r *Runner) process(ctx context.Context, path string, sel fields.Selection) (o outcome) {
	logger := r.logger().With("path", path)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("document processing panicked", "error", rec)
			o = outcome{errMsg: fmt.Sprintf("%s%v", MsgFailedPrefix, rec)}
		}
	}()

	text, err := r.Text.ExtractText(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{cancelled: true}
		}
		logger.Warn("text extraction failed", "error", err)
		return outcome{errMsg: MsgNoText}
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("document has no text")
		return outcome{errMsg: MsgNoText}
	}

	rec := r.Extractor.Extract(ctx, text, sel)
	if ctx.Err() != nil {
		return outcome{cancelled: true}
	}
	logger.Debug("document extracted", "keys", rec.Keys())
	return outcome{record: rec}
}

func (r *Runner) workers(n int) int {
	w := r.Workers
	if w < 1 {
		w = 1
	}
	return min(w, n)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Outcome is the terminal notification of a batch started with Start.
type Outcome struct {
	Results []*types.Result
	Err     error
}

// Start runs the batch on its own goroutine. The returned channel delivers
// exactly one Outcome, carrying the full ordered result list, and is then
// closed. Progress callbacks run on the batch goroutine.
func (r *Runner) Start(ctx context.Context, paths []string, sel fields.Selection, progress ProgressFunc) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		results, err := r.Run(ctx, paths, sel, progress)
		ch <- Outcome{Results: results, Err: err}
	}()
	return ch
}
