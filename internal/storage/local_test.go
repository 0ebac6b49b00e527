package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "uploads", 0)
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	img, err := s.Save(context.Background(), fileHeader(t, "cat.PNG", []byte("png-bytes")), "http://localhost:3009/")
	require.NoError(t, err)
	require.Equal(t, "1700000000000-cat.PNG", img.Key)
	require.Equal(t, "http://localhost:3009/uploads/1700000000000-cat.PNG", img.URL)

	b, err := os.ReadFile(filepath.Join(dir, "1700000000000-cat.PNG"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))
}

func TestLocalStore_SameNameSameMillisecond(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads", 0)
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first, err := s.Save(context.Background(), fileHeader(t, "cat.png", []byte("one")), "http://h")
	require.NoError(t, err)
	second, err := s.Save(context.Background(), fileHeader(t, "cat.png", []byte("two")), "http://h")
	require.NoError(t, err)

	require.Equal(t, "1700000000000-cat.png", first.Key)
	require.NotEqual(t, first.Key, second.Key)
	require.Regexp(t, `^1700000000000-cat-[0-9a-f]{8}\.png$`, second.Key)

	b, err := os.ReadFile(filepath.Join(dir, first.Key))
	require.NoError(t, err)
	require.Equal(t, "one", string(b))
	b, err = os.ReadFile(filepath.Join(dir, second.Key))
	require.NoError(t, err)
	require.Equal(t, "two", string(b))
}

func TestLocalStore_Remove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads", 0)
	require.NoError(t, err)

	img, err := s.Save(context.Background(), fileHeader(t, "cat.jpg", []byte("x")), "http://h")
	require.NoError(t, err)
	require.NoError(t, s.Remove(context.Background(), img.Key))
	require.NoFileExists(t, filepath.Join(dir, img.Key))
	require.NoError(t, s.Remove(context.Background(), img.Key))

	require.Error(t, s.Remove(context.Background(), "../escape.png"))
}

func TestLocalStore_RejectsType(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), fileHeader(t, "doc.gif", []byte("x")), "http://h")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStore_RejectsSize(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads", 4)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), fileHeader(t, "big.jpg", []byte("0123456789")), "http://h")
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestLocalStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := NewLocalStore(dir, "/uploads/", 0)
	require.NoError(t, err)
	require.Equal(t, "/uploads", s.Prefix())
	require.DirExists(t, dir)
}
