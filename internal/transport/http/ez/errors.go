package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-blog/internal/domain"
	resp "go-gin-mongo-blog/internal/transport/http/response"
)

// AErr 统一错误对象：Code 即 HTTP 状态码
type AErr struct {
	Code   int
	Msg    string
	Errors []string // 字段级错误
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Invalid 校验失败，附带字段级错误
func Invalid(errs []string) error {
	return &AErr{Code: http.StatusBadRequest, Msg: "Validation failed", Errors: errs}
}

// Fail 把任意错误映射成状态码 + 信封，并挂到 c.Errors 供访问日志输出
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var ae *AErr
	var se *domain.StoreError
	switch {
	case errors.As(err, &ae):
		c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Error(), ae.Errors...))
	case errors.As(err, &se):
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, se.Error()))
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, "internal error"))
	}
}
