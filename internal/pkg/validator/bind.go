package validator

import (
	"net/http"

	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes and validates the request body, writing the error
// response itself when either step fails.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	if errs := Validate(req); errs != nil {
		response.Error(c, apperr.New(apperr.CodeValidation, "validation failed").WithDetails(errs))
		return false
	}
	return true
}
