package handler

import "go-gin-mongo-blog/internal/transport/http/ez"

// orNotFound 把仓储的 (nil, nil) 转成 404
func orNotFound[T any](v *T, err error, msg string) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ez.NotFound(msg)
	}
	return v, nil
}
