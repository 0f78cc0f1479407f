package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hireForm/internal/application"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// ValidationFailed 返回逐字段的校验错误。
func ValidationFailed(c *gin.Context, fields application.FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

func BadRequest(c *gin.Context, msg string)         { Error(c, http.StatusBadRequest, msg) }
func TooManyRequests(c *gin.Context)                { Error(c, http.StatusTooManyRequests, "rate limit exceeded") }
func Internal(c *gin.Context)                       { Error(c, http.StatusInternalServerError, "internal error") }
func Misconfigured(c *gin.Context)                  { Error(c, http.StatusInternalServerError, "server misconfigured") }
func ServiceUnavailable(c *gin.Context, msg string) { Error(c, http.StatusServiceUnavailable, msg) }
