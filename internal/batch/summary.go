// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"io"

	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// Summary holds the outcome counts of a batch run.
type Summary struct {
	Succeeded int
	Failed    int
}

// Summarize counts the results by status.
func Summarize(results []*types.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status() {
		case types.ResultSuccess:
			s.Succeeded++
		case types.ResultFailed:
			s.Failed++
		}
	}
	return s
}

// Total returns the number of documents counted.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed
}

// HasFailures reports whether any document failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Print writes the one-line batch summary to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		s.Succeeded, s.Failed, s.Total())
}
