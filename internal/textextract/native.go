// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Native extracts text in-process. pdfcpu reads the document structure
// first (relaxed validation) so broken files fail fast with a clear error;
// ledongthuc/pdf then produces the plain text of each page.
type Native struct {
	MaxFileBytes int64
}

// ExtractText implements Extractor.
func (n *Native) ExtractText(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkSize(path, n.MaxFileBytes); err != nil {
		return "", err
	}

	pages, err := pageCount(path)
	if err != nil {
		return "", err
	}
	if pages == 0 {
		return "", fmt.Errorf("%s has no pages: %w", path, ErrNoText)
	}

	// The content-stream parser panics on some malformed fonts.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading text of %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	texts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}
		texts = append(texts, t)
	}
	return joinPages(path, texts)
}

// pageCount validates the PDF structure and returns its page count.
func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return pctx.PageCount, nil
}
