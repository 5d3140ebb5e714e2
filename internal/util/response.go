package util

import (
	"errors"
	"net/http"
	"skill_extractor_backend/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Timestamp: time.Now(),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err), zap.String("path", c.Request.URL.Path))
	InternalServerError(c)
}

// HandleError 将服务层错误一次性转换为错误响应
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		LogInternalError(c, err)
		return
	}

	status := appErr.Kind.Status()
	message := appErr.Message
	switch appErr.Kind {
	case KindServiceUnavailable:
		// 不向客户端暴露上游诊断信息
		message = serviceUnavailableMessage
		logger.Log.Error("AI service unavailable", zap.Error(err), zap.String("path", c.Request.URL.Path))
	case KindGenerationFailure, KindParseFailure, KindTimeout, KindInternal:
		logger.Log.Error(appErr.Kind.String(), zap.Error(err), zap.String("path", c.Request.URL.Path))
	default:
		logger.Log.Warn(appErr.Kind.String(), zap.String("message", appErr.Message), zap.String("path", c.Request.URL.Path))
	}
	if appErr.Kind == KindInternal {
		message = "An unexpected error occurred. Please contact support."
	}

	Error(c, status, message)
}
