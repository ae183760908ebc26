package upload

import "carrental/internal/pkg/apperr"

var (
	ErrUploadNotFound  = apperr.New(apperr.CodeNotFound, "upload not found")
	ErrNotOwner        = apperr.New(apperr.CodeOwnership, "upload does not belong to the caller")
	ErrFileTooLarge    = apperr.New(apperr.CodeValidation, "file exceeds maximum allowed size")
	ErrInvalidMimeType = apperr.New(apperr.CodeValidation, "file type is not allowed")
	ErrEmptyFile       = apperr.New(apperr.CodeValidation, "file is empty")
	ErrNoFile          = apperr.New(apperr.CodeValidation, "multipart field 'file' is required")
)
