package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/utils/response"
)

// Error is a non-2xx answer from the server. Kind is empty for validation
// failures, which carry Details instead.
type Error struct {
	StatusCode int
	Kind       string
	Message    string
	Details    customerrors.FieldErrors
	Stack      string

	raw []byte
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		if e.Kind != "" {
			return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s: %s", k, e.Details[k].Message))
	}
	return fmt.Sprintf("%s (%d): %s", e.Message, e.StatusCode, strings.Join(fields, ", "))
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// decodeError understands both the generic envelope and the validation body.
func decodeError(status int, body []byte) error {
	apiErr := &Error{StatusCode: status, raw: body}

	var envelope response.ErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		apiErr.Kind = envelope.Error
		apiErr.Message = envelope.Message
		apiErr.Stack = envelope.Stack
		return apiErr
	}

	var validation response.ValidationBody
	if err := json.Unmarshal(body, &validation); err == nil && validation.Message != "" {
		apiErr.Message = validation.Message
		apiErr.Details = validation.Details
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = "unexpected empty response"
	}
	return apiErr
}
