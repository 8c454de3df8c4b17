package api

import (
	"errors"
	"net/http"

	"tourism/internal/apperr"
	"tourism/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeConflict           = "ERR_CONFLICT"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeUserDisabled       = "ERR_USER_DISABLED"

	// 业务逻辑错误码
	ErrCodeMissingField = "ERR_MISSING_FIELD"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// abortWithError writes the error response and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	status, body := errorBody(err)
	c.AbortWithStatusJSON(status, body)
}

// respondError maps a service or guard error onto the HTTP error contract.
func respondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	c.JSON(status, body)
}

func errorBody(err error) (int, APIError) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logrus.WithError(err).Error("unclassified error reached the http layer")
		return http.StatusInternalServerError, APIError{Code: ErrCodeInternalError, Message: "internal server error"}
	}

	message := appErr.Error()
	switch appErr.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, APIError{Code: ErrCodeInvalidRequest, Message: message}
	case apperr.KindConflict:
		if errors.Is(err, service.ErrEmailTaken) {
			return http.StatusConflict, APIError{Code: ErrCodeEmailExists, Message: message}
		}
		return http.StatusConflict, APIError{Code: ErrCodeConflict, Message: message}
	case apperr.KindAuth:
		return http.StatusUnauthorized, APIError{Code: ErrCodeInvalidCredentials, Message: message}
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized, APIError{Code: ErrCodeUnauthorized, Message: message}
	case apperr.KindForbidden:
		if errors.Is(err, service.ErrAccountDisabled) {
			return http.StatusForbidden, APIError{Code: ErrCodeUserDisabled, Message: message}
		}
		return http.StatusForbidden, APIError{Code: ErrCodeForbidden, Message: message}
	case apperr.KindNotFound:
		return http.StatusNotFound, APIError{Code: ErrCodeNotFound, Message: message}
	case apperr.KindUnavailable:
		if appErr.Err != nil {
			logrus.WithError(appErr.Err).Error("backing service unavailable")
		}
		return http.StatusServiceUnavailable, APIError{Code: ErrCodeServiceUnavailable, Message: message}
	default:
		return http.StatusInternalServerError, APIError{Code: ErrCodeInternalError, Message: "internal server error"}
	}
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthenticated 401 未认证
func Unauthenticated(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}
