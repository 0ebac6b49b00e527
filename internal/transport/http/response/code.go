package response

// 常见状态码（直接基于 HTTP 语义）
const (
	CodeOK              = 200
	CodeCreated         = 201
	CodeNoContent       = 204
	CodeBadRequest      = 400
	CodeNotFound        = 404
	CodeTooMany         = 429
	CodeServerError     = 500
	CodeGatewayTimeout  = 504
	CodeRequestTooLarge = 413
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeCreated:         "Created",
	CodeNoContent:       "No Content",
	CodeBadRequest:      "Bad Request",
	CodeNotFound:        "Not Found",
	CodeTooMany:         "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeGatewayTimeout:  "Gateway Timeout",
	CodeRequestTooLarge: "Request Entity Too Large",
}
