package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-gin-mongo-blog/pkg/utils"
)

// LocalStore 写入本地目录，由 API 以 prefix 静态路径对外提供
type LocalStore struct {
	dir      string
	prefix   string
	maxBytes int64
	now      func() time.Time
}

func NewLocalStore(dir, prefix string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &LocalStore{dir: dir, prefix: "/" + strings.Trim(prefix, "/"), maxBytes: maxBytes, now: time.Now}, nil
}

func (s *LocalStore) Dir() string    { return s.dir }
func (s *LocalStore) Prefix() string { return s.prefix }

func (s *LocalStore) Save(_ context.Context, fh *multipart.FileHeader, baseURL string) (Image, error) {
	if _, err := check(fh, s.maxBytes); err != nil {
		return Image{}, err
	}
	src, err := fh.Open()
	if err != nil {
		return Image{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name, dst, err := s.create(utils.UploadName(s.now(), fh.Filename))
	if err != nil {
		return Image{}, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return Image{}, fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return Image{}, fmt.Errorf("write upload: %w", err)
	}
	return Image{Key: name, URL: strings.TrimRight(baseURL, "/") + s.prefix + "/" + url.PathEscape(name)}, nil
}

// create 以 O_EXCL 新建文件；重名时加随机后缀再试
func (s *LocalStore) create(name string) (string, *os.File, error) {
	candidate := name
	for i := 0; i < maxNameAttempts; i++ {
		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, fmt.Errorf("create upload: %w", err)
		}
		candidate = utils.WithSuffix(name, utils.ShortID())
	}
	return "", nil, fmt.Errorf("create upload: %q still taken after %d attempts", name, maxNameAttempts)
}

func (s *LocalStore) Remove(_ context.Context, key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("remove upload: bad key %q", key)
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
