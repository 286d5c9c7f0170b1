package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

// 鉴权失败的机读原因码，前端据此决定重登还是静默重试
const (
	CodeNoToken      = "NO_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
)

// AppError 领域错误，带 HTTP 状态码和可选的机读负载，
// 业务层只负责构造，统一由 handler 层格式化输出
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message}
}

func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

func Unauthorized(msg, code string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: msg, Data: map[string]string{"code": code}}
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg)
}

func Conflict(msg string) *AppError {
	return NewAppError(http.StatusConflict, msg)
}

func Internal(msg string, cause error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: msg, Cause: cause}
}

// AsAppError 判断是否领域错误
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
