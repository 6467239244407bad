package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/saiyo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func docNames(t *testing.T, l *Loader, locations ...string) []string {
	t.Helper()
	docs, err := l.Documents(context.Background(), locations...)
	require.NoError(t, err)
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("/tmp/cv.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "file://"), got)
	assert.True(t, strings.HasSuffix(got, "/tmp/cv.pdf"), got)

	got, err = Normalize("s3://bucket/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/cv.pdf", got)

	got, err = Normalize("cv.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "file://"), got)
}

func TestDocuments_files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "second")
	writeFile(t, filepath.Join(dir, "a.txt"), "first")

	l := NewLoader()
	docs, err := l.Documents(context.Background(), filepath.Join(dir, "b.txt"), filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b.txt", docs[0].Name, "explicit files keep argument order")
	assert.Equal(t, "second", string(docs[0].Content))
	assert.Equal(t, "a.txt", docs[1].Name)
}

func TestDocuments_directoryFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "b")
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "photo.png"), "png")
	writeFile(t, filepath.Join(dir, "nested", "c.txt"), "c")

	cfg := &config.ExtractConfig{Extensions: []string{".txt", ".md"}}
	l := NewLoader(WithFilter(cfg.Accepts))

	assert.Equal(t, []string{"a.txt", "b.md", "c.txt"}, docNames(t, l, dir))
}

func TestDocuments_fileURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cv.txt"), "hello")

	assert.Equal(t, []string{"cv.txt"}, docNames(t, NewLoader(), "file://"+filepath.ToSlash(filepath.Join(dir, "cv.txt"))))
}

func TestDocuments_empty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.png"), "x")

	l := NewLoader(WithFilter(func(ext string) bool { return ext == ".pdf" }))
	_, err := l.Documents(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestDocuments_missing(t *testing.T) {
	_, err := NewLoader().Documents(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jd.txt"), "Python developer")

	text, err := NewLoader().Text(context.Background(), filepath.Join(dir, "jd.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Python developer", text)

	_, err = NewLoader().Text(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
