package models

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft ProjectDraft
		field string
	}{
		{"valid without category", ProjectDraft{Title: "T", Description: "D"}, ""},
		{"valid with category", ProjectDraft{Title: "T", Description: "D", Category: "Design"}, ""},
		{"empty title", ProjectDraft{Description: "D"}, "title"},
		{"blank title", ProjectDraft{Title: "   ", Description: "D"}, "title"},
		{"empty description", ProjectDraft{Title: "T"}, "description"},
		{"unknown category", ProjectDraft{Title: "T", Description: "D", Category: "Astrology"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	err := ProjectDraft{Title: "T", Description: "D", Category: "Astrology"}.Validate()
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

type stubFile struct{}

func (stubFile) Name() string        { return "a.txt" }
func (stubFile) Size() int64         { return 1 }
func (stubFile) ContentType() string { return "text/plain" }
func (stubFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func TestUploadItemTransitions(t *testing.T) {
	item := NewUploadItem("id-1", stubFile{})
	assert.Equal(t, StatusPending, item.Status)

	_, err := item.Transition(StatusUploaded, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	uploading, err := item.Transition(StatusUploading, "")
	require.NoError(t, err)
	assert.Equal(t, StatusUploading, uploading.Status)
	assert.Equal(t, StatusPending, item.Status, "transition must not mutate the original")

	failed, err := uploading.Transition(StatusFailed, "boom")
	require.NoError(t, err)
	assert.Equal(t, "boom", failed.Reason)
	assert.Equal(t, "id-1", failed.ID)
	assert.True(t, failed.Status.Terminal())

	_, err = failed.Transition(StatusUploading, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	uploaded, err := uploading.Transition(StatusUploaded, "ignored")
	require.NoError(t, err)
	assert.Empty(t, uploaded.Reason)

	_, err = uploaded.Transition(StatusFailed, "late")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	defaulted, err := uploading.Transition(StatusFailed, "")
	require.NoError(t, err)
	assert.Equal(t, "upload failed", defaulted.Reason)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindImage, KindOf("image/png"))
	assert.Equal(t, KindVideo, KindOf("video/mp4"))
	assert.Equal(t, KindDocument, KindOf("application/pdf"))
}

func TestNewLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	f, err := NewLocalFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", f.Name())
	assert.Equal(t, int64(8), f.Size())
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = NewLocalFile(dir)
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestNewLocalFileSniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.unknownext")
	require.NoError(t, os.WriteFile(path, []byte("plain words"), 0644))

	f, err := NewLocalFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", f.ContentType())
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("x"), 0644))

	single := filepath.Join(t.TempDir(), "z.png")
	require.NoError(t, os.WriteFile(single, []byte("z"), 0644))

	files, err := ExpandPaths([]string{single, dir})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"z.png", "a.txt", "b.txt"}, names)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestExpandPathsSkipsUnacceptedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"clip.MP4", "README.md", ".DS_Store", ".hidden.png", "archive.zip", "slides.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	explicit := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(explicit, []byte("# notes"), 0644))

	files, err := ExpandPaths([]string{dir, explicit})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"clip.MP4", "slides.pdf", "notes.md"}, names)
}

func TestIsAllowedFile(t *testing.T) {
	assert.True(t, IsAllowedFile("photo.JPEG"))
	assert.True(t, IsAllowedFile("report.docx"))
	assert.False(t, IsAllowedFile("README.md"))
	assert.False(t, IsAllowedFile("Makefile"))
	assert.False(t, IsAllowedFile("archive.tar.gz"))
}

func TestTimestampUnmarshal(t *testing.T) {
	var p Project
	err := json.Unmarshal([]byte(`{"id":"1","created_at":"2024-03-01T10:20:30.123456","updated_at":null}`), &p)
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)))
	assert.True(t, p.UpdatedAt.IsZero())

	err = json.Unmarshal([]byte(`{"created_at":"yesterday"}`), &p)
	assert.Error(t, err)
}

func TestTokenStore(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	token, err := store.GetToken()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SaveToken("abc123\n"))
	token, err = store.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	info, err := os.Stat(store.TokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.ClearToken())
	require.NoError(t, store.ClearToken())
}
