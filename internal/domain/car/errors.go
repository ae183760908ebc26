package car

import "carrental/internal/pkg/apperr"

var (
	ErrCarNotFound    = apperr.New(apperr.CodeNotFound, "car not found")
	ErrNotInState     = apperr.New(apperr.CodeNotFound, "car not found or already transitioned")
	ErrNotCarOwner    = apperr.New(apperr.CodeOwnership, "car does not belong to the caller")
	ErrForbidden      = apperr.New(apperr.CodeForbidden, "insufficient permissions")
	ErrInvalidListing = apperr.New(apperr.CodeValidation, "invalid listing")
	ErrInvalidStatus  = apperr.New(apperr.CodeValidation, "invalid car status")
)
