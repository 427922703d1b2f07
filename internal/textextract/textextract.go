// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textextract reads the plain text of source documents with
// pluggable backends.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// DefaultMaxFileBytes is the largest document a backend will open.
const DefaultMaxFileBytes int64 = 100 << 20

// pageSeparator joins the text of consecutive pages.
const pageSeparator = "\n\n"

var (
	// ErrNoText is returned when a document yields no text, e.g. a scanned
	// PDF without a text layer.
	ErrNoText = errors.New("document contains no text")

	// ErrTooLarge is returned for documents above the configured size cap.
	ErrTooLarge = errors.New("document exceeds size limit")

	// ErrUnsupported is returned for file types no backend handles.
	ErrUnsupported = errors.New("unsupported document type")
)

// Extractor returns the text of the document at path. Pages are separated
// by a blank line. Different backends (native, pdftotext, plain text)
// implement this interface.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Router dispatches on the file extension: .pdf to PDF, .txt to Text.
type Router struct {
	PDF  Extractor
	Text Extractor
}

// ExtractText implements Extractor.
func (r *Router) ExtractText(ctx context.Context, path string) (string, error) {
	backend, err := r.ForPath(path)
	if err != nil {
		return "", err
	}
	return backend.ExtractText(ctx, path)
}

// ForPath returns the backend for path.
func (r *Router) ForPath(path string) (Extractor, error) {
	var backend Extractor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		backend = r.PDF
	case ".txt":
		backend = r.Text
	}
	if backend == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return backend, nil
}

// New builds the router for cfg. The pdftotext backend fails construction
// when the binary is not on PATH.
func New(cfg types.ExtractionConfig) (*Router, error) {
	r := &Router{Text: &PlainText{MaxFileBytes: cfg.MaxFileBytes}}
	switch cfg.Backend {
	case types.BackendNative, "":
		r.PDF = &Native{MaxFileBytes: cfg.MaxFileBytes}
	case types.BackendPdftotext:
		p, err := NewPdftotext(cfg.MaxFileBytes)
		if err != nil {
			return nil, err
		}
		r.PDF = p
	default:
		return nil, fmt.Errorf("unknown text backend %q", cfg.Backend)
	}
	return r, nil
}

// checkSize stats path and enforces the size cap. max <= 0 uses
// DefaultMaxFileBytes.
func checkSize(path string, max int64) error {
	if max <= 0 {
		max = DefaultMaxFileBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrUnsupported)
	}
	if info.Size() > max {
		return fmt.Errorf("%s is %d bytes: %w", path, info.Size(), ErrTooLarge)
	}
	return nil
}

// joinPages joins non-blank page texts, returning ErrNoText when none
// remain.
func joinPages(path string, pages []string) (string, error) {
	kept := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimRight(p, " \t\r\n\f"))
		}
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return strings.Join(kept, pageSeparator), nil
}

// PlainText reads UTF-8 text files. It lets fixtures and pre-converted
// extracts run through the same pipeline as PDFs.
type PlainText struct {
	MaxFileBytes int64
}

// ExtractText implements Extractor. Form feeds split pages.
func (p *PlainText) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkSize(path, p.MaxFileBytes); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return joinPages(path, strings.Split(string(data), "\f"))
}
