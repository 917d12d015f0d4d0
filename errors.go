package schemaplan

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/schemaplan/diag"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeInternal      ErrorCode = "internal"
	CodeFailed        ErrorCode = "failed"
	CodeDrift         ErrorCode = "drift"
	CodeUnknown       ErrorCode = "unknown"
)

// Error is a generation failure with a code and optional details.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf creates an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns a copy of e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	maps.Copy(details, e.Details)
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// ToError maps an error returned by this module to an *Error.
// It returns nil for a nil error.
func ToError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var internal *diag.InternalError
	if errors.As(err, &internal) {
		out := &Error{Code: CodeInternal, Message: internal.Error()}
		if internal.Subject != "" {
			out = out.WithDetail("subject", internal.Subject)
		}
		return out
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make(map[string]any)
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Field()] = msg
			messages = append(messages, ve.Field()+": "+msg)
		}
		return &Error{Code: CodeInvalidConfig, Message: strings.Join(messages, "; "), Details: details}
	}

	var multi schema.MultiError
	if errors.As(err, &multi) {
		details := make(map[string]any, len(multi))
		for key, kerr := range multi {
			details[key] = kerr.Error()
		}
		return &Error{Code: CodeInvalidConfig, Message: multi.Error(), Details: details}
	}

	return &Error{Code: CodeUnknown, Message: err.Error()}
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "javapackage":
		return "must be a dotted package name of valid identifiers"
	case "javatype":
		return "must be a fully qualified class name"
	case "outpath":
		return "must be a clean relative path"
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
