package response

import "github.com/masteryyh/scaffold/pkg/customerrors"

const ValidationFailedMessage = "Validation Failed"

// ErrorBody is the generic error envelope.
type ErrorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Stack      string `json:"stack,omitempty"`
}

// ValidationBody is written for binder validation failures instead of ErrorBody.
type ValidationBody struct {
	Message string                   `json:"message"`
	Details customerrors.FieldErrors `json:"details"`
}
