package customerrors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

const maxCallers = 32

// Kind identifies a class of application failure. Each kind fixes its HTTP
// status code and whether it is an expected (operational) failure.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
	KindTooManyRequests
	KindInternalServer
	KindServiceUnavailable
)

type kindInfo struct {
	name        string
	status      int
	message     string
	operational bool
}

var kinds = map[Kind]kindInfo{
	KindBadRequest:         {"BadRequestError", http.StatusBadRequest, "Bad Request", true},
	KindUnauthorized:       {"UnauthorizedError", http.StatusUnauthorized, "Unauthorized", true},
	KindForbidden:          {"ForbiddenError", http.StatusForbidden, "Forbidden", true},
	KindNotFound:           {"NotFoundError", http.StatusNotFound, "Not Found", true},
	KindConflict:           {"ConflictError", http.StatusConflict, "Conflict", true},
	KindValidation:         {"ValidationError", http.StatusUnprocessableEntity, "Validation Error", true},
	KindTooManyRequests:    {"TooManyRequestsError", http.StatusTooManyRequests, "Too Many Requests", true},
	KindInternalServer:     {"InternalServerError", http.StatusInternalServerError, "Internal Server Error", false},
	KindServiceUnavailable: {"ServiceUnavailableError", http.StatusServiceUnavailable, "Service Unavailable", false},
}

// Name is the error kind name reported in the "error" field of responses.
func (k Kind) Name() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return kinds[KindInternalServer].name
}

func (k Kind) StatusCode() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Operational reports whether failures of this kind are safe to describe to
// the client. Unknown kinds are treated as non-operational.
func (k Kind) Operational() bool {
	if info, ok := kinds[k]; ok {
		return info.operational
	}
	return false
}

func (k Kind) DefaultMessage() string {
	if info, ok := kinds[k]; ok {
		return info.message
	}
	return kinds[KindInternalServer].message
}

func (k Kind) String() string {
	return k.Name()
}

// AppError is an application-level failure carrying a fixed status code and
// an operational flag derived from its Kind.
type AppError struct {
	Kind    Kind
	Message string

	cause   error
	callers []uintptr
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Name(), e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Name(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) StatusCode() int {
	return e.Kind.StatusCode()
}

func (e *AppError) IsOperational() bool {
	return e.Kind.Operational()
}

// Stack formats the call stack recorded when the error was created. Frames
// are only resolved here, so errors whose stack is never shown stay cheap.
func (e *AppError) Stack() string {
	if len(e.callers) == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(e.callers)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

// Masked returns a generic internal error that keeps e's creation stack.
func (e *AppError) Masked() *AppError {
	return &AppError{
		Kind:    KindInternalServer,
		Message: KindInternalServer.DefaultMessage(),
		callers: e.callers,
	}
}

// New creates an AppError of the given kind. An empty message falls back to
// the kind's default message.
func New(kind Kind, message string) *AppError {
	return newAppError(kind, message, nil)
}

// Wrap creates an AppError that keeps cause reachable through errors.Is/As.
func Wrap(kind Kind, message string, cause error) *AppError {
	return newAppError(kind, message, cause)
}

func newAppError(kind Kind, message string, cause error) *AppError {
	if message == "" {
		message = kind.DefaultMessage()
	}
	pcs := make([]uintptr, maxCallers)
	// skip runtime.Callers, newAppError and the exported constructor
	n := runtime.Callers(3, pcs)
	return &AppError{
		Kind:    kind,
		Message: message,
		cause:   cause,
		callers: pcs[:n],
	}
}

func BadRequest(message string) *AppError {
	return New(KindBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, message)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func TooManyRequests(message string) *AppError {
	return New(KindTooManyRequests, message)
}

func InternalServer(message string) *AppError {
	return New(KindInternalServer, message)
}

func ServiceUnavailable(message string) *AppError {
	return New(KindServiceUnavailable, message)
}

// As returns the first AppError in err's chain, or nil.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
