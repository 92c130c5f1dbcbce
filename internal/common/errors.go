package common

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the pipeline. Stage-local failures are recovered and
// carried as sentinel values; these errors classify the per-document outcome.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrConversionFailed  = errors.New("all conversion strategies exhausted")
	ErrNoUsableInput     = errors.New("no usable OCR output survived filtering")
	ErrExtractionFailed  = errors.New("aspect extraction failed")
	ErrIdentifierMissing = errors.New("no numeric identifier in filename")
	ErrPersistenceFailed = errors.New("persistent store unreadable or unwritable")
)

// AppError carries a stable code alongside a human-readable message.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
