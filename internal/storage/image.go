// Package storage keeps uploaded post images, on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("Only images are allowed (.png, .jpg, .jpeg)")
	ErrTooLarge        = errors.New("image exceeds the upload size limit")
)

// Image is a stored upload: Key names it inside the backend, URL is public.
type Image struct {
	Key string
	URL string
}

// ImageStore persists uploaded images. baseURL is "<scheme>://<host>" of the
// current request; backends with their own public endpoint ignore it.
// Remove deletes a stored image by key and is used to roll back an upload
// whose post was rejected.
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader, baseURL string) (Image, error)
	Remove(ctx context.Context, key string) error
}

// 同一毫秒内同名上传时的重试次数
const maxNameAttempts = 4

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

func check(fh *multipart.FileHeader, maxBytes int64) (contentType string, err error) {
	ct, ok := contentTypes[strings.ToLower(filepath.Ext(fh.Filename))]
	if !ok {
		return "", ErrUnsupportedType
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", ErrTooLarge
	}
	return ct, nil
}
