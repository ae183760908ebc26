package maintenance

import "carrental/internal/pkg/apperr"

var (
	ErrRecordNotFound    = apperr.New(apperr.CodeNotFound, "maintenance record not found")
	ErrInvoiceNotFound   = apperr.New(apperr.CodeNotFound, "invoice not found")
	ErrForbidden         = apperr.New(apperr.CodeForbidden, "insufficient permissions")
	ErrInvalidRecord     = apperr.New(apperr.CodeValidation, "invalid maintenance record")
	ErrInvalidInvoice    = apperr.New(apperr.CodeValidation, "invalid invoice request")
	ErrNotInvoiceable    = apperr.New(apperr.CodeStateConflict, "records must be completed and not yet invoiced")
	ErrInvalidTransition = apperr.New(apperr.CodeStateConflict, "status transition not allowed")
)
