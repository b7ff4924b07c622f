package utils

import (
	"errors"
	"net/http"

	"worldstage/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RequestIDKey はgin.Contextに保存するリクエストIDのキー
const RequestIDKey = "request_id"

// SendSuccess は {"success": true, ...payload} を返す
func SendSuccess(c *gin.Context, statusCode int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

// SendAppError maps the error taxonomy onto an HTTP response. Internal errors
// are logged with their cause and reported with the generic fallback message.
func SendAppError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
		SendError(c, apperror.StatusCode(err), appErr.Message)
		return
	}
	logger.Error(fallback,
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(RequestIDKey)),
		zap.Error(err),
	)
	_ = c.Error(err)
	SendError(c, http.StatusInternalServerError, fallback)
}

// SendBindingError は入力検証エラーをフィールドごとのメッセージ付きで返す
func SendBindingError(c *gin.Context, err error, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"errors":  ParseValidationError(err),
	})
}

func ParseValidationError(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = validationMessage(fe)
		}
		return out
	}
	if err != nil {
		out["body"] = "Request body is not valid JSON"
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return "Field validation for '" + fe.Field() + "' failed on the '" + fe.Tag() + "' tag"
	}
}
