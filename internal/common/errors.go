// Package common defines shared constants and sentinel errors used across
// ContactGain components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Submission errors. Each maps to a distinct outcome for the
	// presentation layer.
	ErrorWindowClosed  = errors.New("submission window closed")
	ErrorValidation    = errors.New("validation error")
	ErrorInvalidPhone  = errors.New("invalid phone number")
	ErrorDuplicateName = errors.New("name already submitted")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorStoreUnavailable = errors.New("store unavailable")
)
