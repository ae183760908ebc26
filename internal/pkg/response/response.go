package response

import (
	"net/http"

	"carrental/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func CustomError(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Error renders err using the status and message registered for its code.
// Untyped errors are reported as backend failures without leaking their text.
func Error(c *gin.Context, err error) {
	typed := apperr.As(err)
	if typed == nil {
		_ = c.Error(err)
		CustomError(c, http.StatusInternalServerError, string(apperr.CodeBackend), apperr.MetadataFor(apperr.CodeBackend).PublicMessage)
		return
	}

	meta := apperr.MetadataFor(typed.Code())
	if meta.HTTPStatus >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	body := gin.H{
		"code":    typed.Code(),
		"message": typed.Message(),
	}
	if typed.Message() == "" {
		body["message"] = meta.PublicMessage
	}
	if meta.DetailsAllowed && typed.Details() != nil {
		body["details"] = typed.Details()
	}
	if meta.Redirect != "" {
		body["redirect"] = meta.Redirect
	}
	c.JSON(meta.HTTPStatus, gin.H{
		"success": false,
		"error":   body,
	})
}
