// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package template

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "templates")
	s, err := NewStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s, dir
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, dir := newTestStore(t)
	in := Template{
		Name:             "בעלויות בלבד",
		Description:      "שם וחלק בנכס",
		SelectedFieldIDs: []string{"owner_name", "owner_share"},
	}

	require.NoError(t, s.Save(in))
	assert.FileExists(t, filepath.Join(dir, "בעלויות בלבד.json"))

	got, err := s.Load("בעלויות בלבד")
	require.NoError(t, err)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.SelectedFieldIDs, got.SelectedFieldIDs)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
	assert.Equal(t, []string{"owner_name", "owner_share"}, got.Selection().IDs())
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save(Template{Name: "t", SelectedFieldIDs: []string{"gush"}}))
	require.NoError(t, s.Save(Template{Name: "t", SelectedFieldIDs: []string{"helka"}}))

	got, err := s.Load("t")
	require.NoError(t, err)
	assert.Equal(t, []string{"helka"}, got.SelectedFieldIDs)
}

func TestSaveRejectsBadNames(t *testing.T) {
	s, _ := newTestStore(t)
	for _, name := range []string{"", "  ", "a/b", `a\b`, ".."} {
		err := s.Save(Template{Name: name})
		assert.ErrorIs(t, err, ErrInvalidTemplate, "name %q", name)
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Load("nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	s, dir := newTestStore(t)
	cases := map[string]string{
		"no-ids":    `{"name": "no-ids"}`,
		"bad-ids":   `{"name": "bad-ids", "selected_field_ids": "gush"}`,
		"empty-id":  `{"name": "empty-id", "selected_field_ids": [""]}`,
		"not-json":  `{"name": `,
		"no-name":   `{"selected_field_ids": ["gush"]}`,
		"name-type": `{"name": 7, "selected_field_ids": []}`,
	}
	for name, body := range cases {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644))
		_, err := s.Load(name)
		assert.ErrorIs(t, err, ErrInvalidTemplate, name)
	}
}

func TestLoadAcceptsUnknownIDsAndLegacyTimestamps(t *testing.T) {
	s, dir := newTestStore(t)
	body := `{
  "name": "legacy",
  "description": "",
  "selected_field_ids": ["gush", "street"],
  "created_at": "2024-03-15T10:20:30.123456"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.json"), []byte(body), 0o644))

	got, err := s.Load("legacy")
	require.NoError(t, err)
	assert.Equal(t, []string{"gush", "street"}, got.Selection().IDs())
	assert.Equal(t, 2024, got.CreatedAt.Year())
}

func TestList(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.Save(Template{Name: "b", Description: "second", SelectedFieldIDs: []string{"gush"}}))
	require.NoError(t, s.Save(Template{Name: "a", Description: "first", SelectedFieldIDs: []string{"helka"}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`x`), 0o644))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "first", entries[0].Description)
	assert.Equal(t, filepath.Join(dir, "a.json"), entries[0].FilePath)
	assert.Equal(t, []string{"helka"}, entries[0].Data.SelectedFieldIDs)
	assert.Equal(t, "b", entries[1].Name)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save(Template{Name: "gone", SelectedFieldIDs: []string{"gush"}}))

	require.NoError(t, s.Delete("gone"))
	_, err := s.Load("gone")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, s.Delete("gone"), ErrTemplateNotFound)
}
