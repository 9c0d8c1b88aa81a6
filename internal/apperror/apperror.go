// Package apperror defines the error kinds surfaced by the engine and their
// wire envelope.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for callers and transports.
type Kind string

// Error kinds.
const (
	KindValidation      Kind = "VALIDATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindAmbiguous       Kind = "AMBIGUOUS"
	KindNoCommonLeague  Kind = "NO_COMMON_LEAGUE"
	KindAlreadyFinished Kind = "ALREADY_FINISHED"
	KindForbidden       Kind = "FORBIDDEN"
	KindInternal        Kind = "INTERNAL"
)

// Envelope codes.
const (
	CodeForbidden          = "E0002"
	CodeServerError        = "E0033"
	CodeInvalidQueryFormat = "E0034"
	CodeDBInsertError      = "E0101"
	CodeDoesNotExist       = "E0103"
)

// Envelope levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Error is a classified error. It is usually declared once as a sentinel
// and wrapped with fmt.Errorf("...: %w", err) at call sites.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
}

// New creates a classified error.
func New(kind Kind, message string, fields ...string) *Error {
	return &Error{Kind: kind, Message: message, Fields: fields}
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Envelope is the error body returned to API clients.
type Envelope struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Level   string   `json:"level"`
	Fields  []string `json:"fields,omitempty"`
}

// ToEnvelope converts err into the HTTP status and envelope to send.
// Internal errors never leak their message.
func ToEnvelope(err error) (int, Envelope) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, Envelope{
			Code:    CodeServerError,
			Message: "internal server error",
			Level:   LevelError,
		}
	}

	env := Envelope{Message: err.Error(), Fields: appErr.Fields}
	var status int
	switch appErr.Kind {
	case KindValidation, KindAmbiguous, KindNoCommonLeague:
		status, env.Code, env.Level = http.StatusBadRequest, CodeInvalidQueryFormat, LevelWarning
	case KindNotFound:
		status, env.Code, env.Level = http.StatusNotFound, CodeDoesNotExist, LevelInfo
	case KindConflict, KindAlreadyFinished:
		status, env.Code, env.Level = http.StatusConflict, CodeDBInsertError, LevelWarning
	case KindForbidden:
		status, env.Code, env.Level = http.StatusForbidden, CodeForbidden, LevelWarning
	default:
		return http.StatusInternalServerError, Envelope{
			Code:    CodeServerError,
			Message: "internal server error",
			Level:   LevelError,
		}
	}
	return status, env
}
