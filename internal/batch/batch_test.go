// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitayManor/pdf-extractor/internal/extract"
	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// fakeText returns canned text per path, or an error for paths in fail or
// errs.
type fakeText struct {
	texts map[string]string
	fail  map[string]bool
	errs  map[string]error
	hook  func(path string)
}

func (f *fakeText) ExtractText(ctx context.Context, path string) (string, error) {
	if f.hook != nil {
		f.hook(path)
	}
	if f.fail[path] {
		return "", errors.New("corrupt document")
	}
	if err := f.errs[path]; err != nil {
		return "", err
	}
	return f.texts[path], nil
}

// echoExtractor stores the text as the gush value.
type echoExtractor struct {
	panicOn string
}

func (e echoExtractor) Extract(_ context.Context, text string, _ fields.Selection) types.Record {
	if e.panicOn != "" && text == e.panicOn {
		panic("index out of range")
	}
	return types.Record{General: map[string]string{"gush": text}}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPreservesOrderAndIsolatesFailures(t *testing.T) {
	text := &fakeText{
		texts: map[string]string{
			"a.pdf": "גוש: 100\nחלקה: 1\n",
			"c.pdf": "גוש: 300\nחלקה: 3\n",
		},
		fail: map[string]bool{"b.pdf": true},
	}
	r := &Runner{
		Text:      text,
		Extractor: extract.New(fields.Default(), extract.WithLogger(quietLogger())),
		Logger:    quietLogger(),
	}

	results, err := r.Run(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, fields.NewSelection("gush"), nil)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a.pdf", results[0].Path)
	assert.Equal(t, "b.pdf", results[1].Path)
	assert.Equal(t, "c.pdf", results[2].Path)
	assert.False(t, results[0].HasError())
	assert.True(t, results[1].HasError())
	assert.Equal(t, MsgNoText, results[1].Error)
	assert.False(t, results[2].HasError())
	assert.Equal(t, "100", results[0].Data.General["gush"])
	assert.Equal(t, "300", results[2].Data.General["gush"])
	assert.True(t, results[1].Data.IsEmpty())
}

func TestRunEmptyTextFails(t *testing.T) {
	r := &Runner{
		Text:      &fakeText{texts: map[string]string{"a.pdf": "  \n "}},
		Extractor: echoExtractor{},
		Logger:    quietLogger(),
	}
	results, err := r.Run(context.Background(), []string{"a.pdf"}, fields.NewSelection("gush"), nil)
	require.NoError(t, err)
	assert.Equal(t, MsgNoText, results[0].Error)
}

func TestRunRecoversFromPanic(t *testing.T) {
	r := &Runner{
		Text:      &fakeText{texts: map[string]string{"a.pdf": "ok", "b.pdf": "boom", "c.pdf": "ok"}},
		Extractor: echoExtractor{panicOn: "boom"},
		Logger:    quietLogger(),
	}

	results, err := r.Run(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, fields.NewSelection("gush"), nil)

	require.NoError(t, err)
	assert.False(t, results[0].HasError())
	require.True(t, results[1].HasError())
	assert.Equal(t, MsgFailedPrefix+"index out of range", results[1].Error)
	assert.False(t, results[2].HasError())
}

func TestRunProgress(t *testing.T) {
	r := &Runner{
		Text:      &fakeText{texts: map[string]string{"a.pdf": "1", "b.pdf": "2", "c.pdf": "3", "d.pdf": "4"}},
		Extractor: echoExtractor{},
		Logger:    quietLogger(),
	}
	var paths []string
	var percents []float64

	_, err := r.Run(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}, fields.NewSelection("gush"),
		func(path string, pct float64) {
			paths = append(paths, path)
			percents = append(percents, pct)
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}, paths)
	assert.Equal(t, []float64{25, 50, 75, 100}, percents)
}

// slowText makes earlier documents take longer, so completion order is
// the reverse of input order. It tracks peak concurrency.
type slowText struct {
	mu     sync.Mutex
	active int
	peak   int
}

func (s *slowText) ExtractText(_ context.Context, path string) (string, error) {
	i, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(path, "doc"), ".pdf"))
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.active++
	s.peak = max(s.peak, s.active)
	s.mu.Unlock()

	time.Sleep(time.Duration(12-i) * 2 * time.Millisecond)

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return strconv.Itoa(i), nil
}

func TestRunWorkersKeepInputOrder(t *testing.T) {
	var paths []string
	for i := 0; i < 12; i++ {
		paths = append(paths, fmt.Sprintf("doc%02d.pdf", i))
	}
	text := &slowText{}
	r := &Runner{Text: text, Extractor: echoExtractor{}, Workers: 4, Logger: quietLogger()}

	results, err := r.Run(context.Background(), paths, fields.NewSelection("gush"), nil)

	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, res := range results {
		assert.Equal(t, paths[i], res.Path)
		assert.Equal(t, strconv.Itoa(i), res.Data.General["gush"])
	}
	assert.LessOrEqual(t, text.peak, 4)
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	text := &fakeText{
		texts: map[string]string{"a.pdf": "1", "b.pdf": "2", "c.pdf": "3"},
		hook: func(path string) {
			if path == "b.pdf" {
				cancel()
			}
		},
	}
	r := &Runner{Text: text, Extractor: echoExtractor{}, Logger: quietLogger()}

	results, err := r.Run(ctx, []string{"a.pdf", "b.pdf", "c.pdf"}, fields.NewSelection("gush"), nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 3)
	assert.Equal(t, types.ResultSuccess, results[0].Status())
	assert.Equal(t, MsgCancelled, results[1].Error)
	assert.Equal(t, MsgCancelled, results[2].Error)
}

func TestRunAdapterTimeoutIsDocumentFailure(t *testing.T) {
	text := &fakeText{
		texts: map[string]string{"a.pdf": "1", "c.pdf": "3"},
		errs: map[string]error{
			"b.pdf": fmt.Errorf("running pdftotext on b.pdf: %w", context.DeadlineExceeded),
		},
	}
	r := &Runner{Text: text, Extractor: echoExtractor{}, Logger: quietLogger()}
	var percents []float64

	results, err := r.Run(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, fields.NewSelection("gush"),
		func(_ string, pct float64) { percents = append(percents, pct) })

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, types.ResultFailed, results[1].Status())
	assert.Equal(t, MsgNoText, results[1].Error)
	assert.Equal(t, types.ResultSuccess, results[2].Status())
	require.Len(t, percents, 3)
	assert.Equal(t, float64(100), percents[2])
}

func TestRunAdapterErrorAfterCancelIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	text := &fakeText{
		texts: map[string]string{"a.pdf": "1"},
		errs:  map[string]error{"b.pdf": errors.New("running pdftotext on b.pdf: signal: killed")},
		hook: func(path string) {
			if path == "b.pdf" {
				cancel()
			}
		},
	}
	r := &Runner{Text: text, Extractor: echoExtractor{}, Logger: quietLogger()}

	results, err := r.Run(ctx, []string{"a.pdf", "b.pdf"}, fields.NewSelection("gush"), nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	assert.Equal(t, types.ResultSuccess, results[0].Status())
	assert.Equal(t, MsgCancelled, results[1].Error)
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Text: &fakeText{}, Extractor: echoExtractor{}, Logger: quietLogger()}

	results, err := r.Run(ctx, []string{"a.pdf", "b.pdf"}, fields.NewSelection("gush"), nil)

	assert.ErrorIs(t, err, context.Canceled)
	for _, res := range results {
		assert.Equal(t, MsgCancelled, res.Error)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	r := &Runner{Text: &fakeText{}, Extractor: echoExtractor{}}
	results, err := r.Run(context.Background(), nil, fields.NewSelection("gush"), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunStatusLines(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{
		Text:      &fakeText{texts: map[string]string{"/in/a.pdf": "1"}, fail: map[string]bool{"/in/b.pdf": true}},
		Extractor: echoExtractor{},
		Logger:    quietLogger(),
		Status:    &buf,
	}
	results, err := r.Run(context.Background(), []string{"/in/a.pdf", "/in/b.pdf"}, fields.NewSelection("gush"), nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "extracted: a.pdf")
	assert.Contains(t, out, "failed:    b.pdf")

	buf.Reset()
	s := Summarize(results)
	assert.Equal(t, Summary{Succeeded: 1, Failed: 1}, s)
	assert.True(t, s.HasFailures())
	s.Print(&buf)
	assert.Contains(t, buf.String(), "1 extracted, 1 failed (total: 2)")
}

func TestStart(t *testing.T) {
	r := &Runner{
		Text:      &fakeText{texts: map[string]string{"a.pdf": "1", "b.pdf": "2"}},
		Extractor: echoExtractor{},
		Logger:    quietLogger(),
	}
	ch := r.Start(context.Background(), []string{"a.pdf", "b.pdf"}, fields.NewSelection("gush"), nil)

	select {
	case out, ok := <-ch:
		require.True(t, ok)
		require.NoError(t, out.Err)
		require.Len(t, out.Results, 2)
		assert.Equal(t, "2", out.Results[1].Data.General["gush"])
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not finish")
	}
	_, ok := <-ch
	assert.False(t, ok, "channel closed after the terminal outcome")
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.pdf", "a.PDF", "notes.txt", "sub/c.pdf", "sub/deep/d.Pdf"} {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}

	flat, err := Discover(root, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.PDF"), filepath.Join(root, "b.pdf")}, flat)

	deep, err := Discover(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.PDF"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "sub", "c.pdf"),
		filepath.Join(root, "sub", "deep", "d.Pdf"),
	}, deep)

	_, err = Discover(filepath.Join(root, "missing"), false)
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "batch")
	require.NoError(t, os.Mkdir(dir, 0o755))
	file := filepath.Join(root, "single.txt")
	for _, p := range []string{file, filepath.Join(dir, "x.pdf"), filepath.Join(dir, "y.pdf")} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	got, err := Expand([]string{file, dir, filepath.Join(dir, "x.pdf")}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{file, filepath.Join(dir, "x.pdf"), filepath.Join(dir, "y.pdf")}, got)

	_, err = Expand([]string{filepath.Join(root, "nope.pdf")}, false)
	assert.True(t, err != nil && strings.Contains(err.Error(), "nope.pdf"))
}
