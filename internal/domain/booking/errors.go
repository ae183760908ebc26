package booking

import "carrental/internal/pkg/apperr"

var (
	ErrBookingNotFound       = apperr.New(apperr.CodeNotFound, "booking not found")
	ErrCarNotAvailable       = apperr.New(apperr.CodeNotAvailable, "car is not available for booking")
	ErrNotBookingOwner       = apperr.New(apperr.CodeOwnership, "booking does not belong to the caller")
	ErrForbidden             = apperr.New(apperr.CodeForbidden, "insufficient permissions")
	ErrInvalidBooking        = apperr.New(apperr.CodeValidation, "invalid booking request")
	ErrInvalidStatus         = apperr.New(apperr.CodeValidation, "invalid booking status")
	ErrInvalidPaymentStatus  = apperr.New(apperr.CodeValidation, "invalid payment status")
	ErrInvalidIncidentStatus = apperr.New(apperr.CodeValidation, "invalid incident status")
	ErrNoIncident            = apperr.New(apperr.CodeStateConflict, "no incident reported for this booking")
	ErrInvalidTransition     = apperr.New(apperr.CodeStateConflict, "status transition not allowed")
)
