// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	available bool
	output    string
	err       error
	calls     [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.output), nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{name: "single page", content: "גוש: 6638\n", want: "גוש: 6638"},
		{name: "pages split by form feed", content: "עמוד 1\n\fעמוד 2\n", want: "עמוד 1\n\nעמוד 2"},
		{name: "blank pages dropped", content: "\f  \fעמוד 3", want: "עמוד 3"},
		{name: "empty file", content: "", wantErr: ErrNoText},
		{name: "whitespace only", content: " \n\t\f\n", wantErr: ErrNoText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "doc.txt", tt.content)
			got, err := (&PlainText{}).ExtractText(context.Background(), path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlainTextSizeLimit(t *testing.T) {
	path := writeFile(t, "big.txt", "0123456789")
	_, err := (&PlainText{MaxFileBytes: 5}).ExtractText(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPlainTextMissingFile(t *testing.T) {
	_, err := (&PlainText{}).ExtractText(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeFile(t, "doc.txt", "text")

	_, err := (&PlainText{}).ExtractText(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = (&Native{}).ExtractText(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNativeRejectsInvalidPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", "this is not a PDF document")
	_, err := (&Native{}).ExtractText(context.Background(), path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoText)
}

func TestNativeSizeLimit(t *testing.T) {
	path := writeFile(t, "big.pdf", "%PDF-1.4 0123456789")
	_, err := (&Native{MaxFileBytes: 4}).ExtractText(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPdftotext(t *testing.T) {
	path := writeFile(t, "doc.pdf", "%PDF-1.4")
	exec := &mockExecutor{available: true, output: "גוש: 6638\n\fחלקה: 45\n\f"}
	p, err := newPdftotext(exec, 0)
	require.NoError(t, err)

	got, err := p.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "גוש: 6638\n\nחלקה: 45", got)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"pdftotext", "-layout", "-enc", "UTF-8", path, "-"}, exec.calls[0])
}

func TestPdftotextFailures(t *testing.T) {
	path := writeFile(t, "doc.pdf", "%PDF-1.4")

	_, err := newPdftotext(&mockExecutor{}, 0)
	assert.Error(t, err, "missing binary")

	p, err := newPdftotext(&mockExecutor{available: true, err: errors.New("exit status 1")}, 0)
	require.NoError(t, err)
	_, err = p.ExtractText(context.Background(), path)
	assert.ErrorContains(t, err, "exit status 1")

	p, err = newPdftotext(&mockExecutor{available: true, output: "\f\f"}, 0)
	require.NoError(t, err)
	_, err = p.ExtractText(context.Background(), path)
	assert.ErrorIs(t, err, ErrNoText)
}

type stubExtractor struct{ text string }

func (s stubExtractor) ExtractText(context.Context, string) (string, error) { return s.text, nil }

func TestRouter(t *testing.T) {
	r := &Router{PDF: stubExtractor{"pdf"}, Text: stubExtractor{"txt"}}
	tests := []struct {
		path    string
		want    string
		wantErr error
	}{
		{path: "a.pdf", want: "pdf"},
		{path: "A.PDF", want: "pdf"},
		{path: "notes.txt", want: "txt"},
		{path: "scan.tiff", wantErr: ErrUnsupported},
		{path: "noext", wantErr: ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := r.ExtractText(context.Background(), tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	r, err := New(types.ExtractionConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Native{}, r.PDF)
	assert.IsType(t, &PlainText{}, r.Text)

	_, err = New(types.ExtractionConfig{Backend: "ocr"})
	assert.Error(t, err)
}
