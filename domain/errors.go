package domain

import "errors"

// Error taxonomy shared by the stores and services. Callers classify with
// errors.Is; the API layer maps each sentinel to an HTTP status.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage unavailable")
	ErrDateFormat   = errors.New("date format error")
	ErrInvalidField = errors.New("invalid field")
)
