package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorDetail 单个参数校验错误
type ErrorDetail struct {
	Loc []string `json:"loc"` // 例如 ["query", "limit"]
	Msg string   `json:"msg"`
}

// Success 返回成功响应，直接输出数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 返回错误响应 {"detail": ...}
func Error(c *gin.Context, code int, detail interface{}) {
	c.JSON(code, gin.H{"detail": detail})
}

// ValidationError 返回422错误
func ValidationError(c *gin.Context, details []ErrorDetail) {
	Error(c, http.StatusUnprocessableEntity, details)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not Found")
}
