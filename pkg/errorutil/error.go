package errorutil

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller. The four engine kinds are
// user-correctable input rejections: the record is left unchanged and the
// caller re-prompts. INTERNAL covers everything else.
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindDepthExceeded      Kind = "DEPTH_EXCEEDED"
	KindNonContiguousLevel Kind = "NON_CONTIGUOUS_LEVEL"
	KindUnknownCategory    Kind = "UNKNOWN_CATEGORY"
	KindInternal           Kind = "INTERNAL"
)

// Error carries a kind plus a retryable marker used by the worker to decide
// between Ack, Release and Bury.
type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Validation creates a VALIDATION error (empty description, malformed weight,
// out-of-range score). Never retryable.
func Validation(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// DepthExceeded creates the rejection for a why-step beyond the terminal depth.
func DepthExceeded(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindDepthExceeded,
		Message: fmt.Sprintf(format, args...),
	}
}

// NonContiguousLevel creates the rejection for a why-step added out of sequence.
func NonContiguousLevel(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindNonContiguousLevel,
		Message: fmt.Sprintf(format, args...),
	}
}

// UnknownCategory creates the rejection for an Ishikawa key outside the fixed set.
func UnknownCategory(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindUnknownCategory,
		Message: fmt.Sprintf(format, args...),
	}
}

// Retriable creates a retryable infrastructure error (network, temporary
// store failure). The worker releases the job for redelivery.
func Retriable(message string) *Error {
	return &Error{
		Kind:      KindInternal,
		Message:   message,
		Retryable: true,
	}
}

// RetriableWithDetails creates a retryable error with developer details.
func RetriableWithDetails(message string, details string) *Error {
	return &Error{
		Kind:       KindInternal,
		Message:    message,
		Retryable:  true,
		DevDetails: details,
	}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsRejection reports whether err is one of the user-correctable engine
// rejections. Rejections are surfaced in the callback, never retried.
func IsRejection(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindDepthExceeded, KindNonContiguousLevel, KindUnknownCategory:
		return true
	}
	return false
}

// IsRetryable reports whether err should be released for redelivery.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// Wrap converts err into *Error, preserving an existing one. Foreign errors
// default to non-retryable INTERNAL.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Kind:       KindInternal,
		Message:    err.Error(),
		DevDetails: fmt.Sprintf("%+v", err),
	}
}
