package pkg

import (
	"log"

	"github.com/gin-gonic/gin"
)

// StandardBody 所有接口共用的响应信封
type StandardBody struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// StatusText status 字段完全由状态码推导
func StatusText(statusCode int) string {
	switch {
	case statusCode < 400:
		return "success"
	case statusCode >= 500:
		return "error"
	default:
		return "fail"
	}
}

// Respond 按信封格式写响应
func Respond(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, StandardBody{
		Status:     StatusText(statusCode),
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

// WriteError 错误统一出口：领域错误原样下发，其余一律 500，
// 原始错误只在非 release 模式打到日志
func WriteError(c *gin.Context, err error) {
	if ae, ok := AsAppError(err); ok {
		Respond(c, ae.StatusCode, ae.Message, ae.Data)
		return
	}
	if gin.Mode() != gin.ReleaseMode {
		log.Printf("unexpected error: %v", err)
	}
	Respond(c, 500, "Internal Server Error", nil)
}
