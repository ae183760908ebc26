package profile

import "carrental/internal/pkg/apperr"

var (
	ErrProfileNotFound = apperr.New(apperr.CodeProfileNotFound, "User profile not found")
	ErrInvalidRole     = apperr.New(apperr.CodeValidation, "invalid role")
	ErrForbidden       = apperr.New(apperr.CodeForbidden, "insufficient permissions")
)
