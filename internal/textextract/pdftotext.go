// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const binPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var defaultExec = &osExecutor{}

// Pdftotext runs the poppler pdftotext binary. It handles some
// right-to-left layouts better than the native backend.
type Pdftotext struct {
	MaxFileBytes int64
	exec         executor
}

// NewPdftotext returns the backend, or an error when pdftotext is not on
// PATH.
func NewPdftotext(maxFileBytes int64) (*Pdftotext, error) {
	return newPdftotext(defaultExec, maxFileBytes)
}

func newPdftotext(exec executor, maxFileBytes int64) (*Pdftotext, error) {
	if _, err := exec.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("%s not available: %w", binPdftotext, err)
	}
	return &Pdftotext{MaxFileBytes: maxFileBytes, exec: exec}, nil
}

// ExtractText implements Extractor. pdftotext ends every page with a form
// feed, which is used to split pages.
func (p *Pdftotext) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkSize(path, p.MaxFileBytes); err != nil {
		return "", err
	}
	out, err := p.exec.Output(ctx, binPdftotext, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("running %s on %s: %w", binPdftotext, path, err)
	}
	return joinPages(path, strings.Split(string(out), "\f"))
}
