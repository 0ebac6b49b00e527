package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID 既是响应头名，也是 gin.Context 里的键
const KeyRequestID = "X-Request-ID"

const maxRequestIDLen = 64

// RequestID 透传上游的 X-Request-ID；缺失或不合法（超长、含控制字符等）时生成新的 uuid，
// 避免把任意客户端输入写进访问日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

// RequestIDFrom 取当前请求的 id；RequestID 未挂载时返回空串
func RequestIDFrom(c *gin.Context) string { return c.GetString(KeyRequestID) }

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}
