package customerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldError describes one failing field. Value carries the issue code.
type FieldError struct {
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// FieldErrors maps a comma-joined field path to its failure.
type FieldErrors map[string]FieldError

// ValidateError is the binder's own validation failure. It is answered with
// the dedicated {"message":"Validation Failed","details":...} shape rather
// than the generic error envelope.
type ValidateError struct {
	Fields  FieldErrors
	Message string
}

func NewValidateError(fields FieldErrors, message string) *ValidateError {
	return &ValidateError{
		Fields:  fields,
		Message: message,
	}
}

func (e *ValidateError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k].Message))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// MissingParameter reports that validation was requested for a request part
// that was never bound on the handler.
func MissingParameter(role string) *ValidateError {
	message := fmt.Sprintf("%s parameter is missing", capitalize(role))
	return NewValidateError(FieldErrors{
		role: {Message: message},
	}, message)
}

func GetValidateError(err error) *ValidateError {
	if err == nil {
		return nil
	}
	var ve *ValidateError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
