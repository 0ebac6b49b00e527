package response

// Resp 统一响应信封
type Resp struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// OK 成功响应（保证 data 不为 null）
func OK(data any, msg string) Resp {
	if data == nil {
		data = struct{}{}
	}
	if msg == "" {
		msg = CodeMsgMap[CodeOK]
	}
	return Resp{Success: true, Data: data, Message: msg}
}

// Error 失败响应；customMsg 为空时使用状态码默认文案，errs 为字段级错误
func Error(code int, customMsg string, errs ...string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Success: false, Message: msg, Errors: errs}
}
