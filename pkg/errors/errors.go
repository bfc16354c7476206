package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code. Clones of a sentinel therefore
// still match it with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	ErrDuplicate        = New("DUPLICATE", http.StatusConflict, "resource already exists")
	ErrInUse            = New("IN_USE", http.StatusPreconditionFailed, "resource still referenced")
	ErrUnsupportedMedia = New("INVALID_FILE_TYPE", http.StatusBadRequest, "file type not allowed")
	ErrFileTooLarge     = New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file too large")
	ErrInvalidToken     = New("INVALID_TOKEN", http.StatusForbidden, "invalid or expired token")

	ErrEmptyDeck         = New("EMPTY_DECK", http.StatusUnprocessableEntity, "no quiz question can be generated from the current quiz list")
	ErrSessionCompleted  = New("SESSION_COMPLETED", http.StatusConflict, "quiz session already completed")
	ErrSessionInProgress = New("SESSION_IN_PROGRESS", http.StatusConflict, "quiz session not completed yet")
	ErrAlreadyAnswered   = New("ALREADY_ANSWERED", http.StatusConflict, "current question already answered")
	ErrNotAnswered       = New("NOT_ANSWERED", http.StatusConflict, "current question not answered yet")
	ErrInvalidSelection  = New("INVALID_SELECTION", http.StatusBadRequest, "invalid answer selection")
	ErrInvalidQuestion   = New("INVALID_QUESTION", http.StatusBadRequest, "malformed quiz question")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
