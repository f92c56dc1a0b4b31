package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/julianstephens/eathmover/internal/logger"
)

// Kind classifies a failure for presentation. Every kind surfaces as a
// user-visible message; none of them is retried automatically.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a missing or malformed input, checked before any remote call.
	KindValidation
	// KindAPI is a reachable backend that reported success=false or a non-2xx status.
	KindAPI
	// KindTransport is a network failure, timeout or undecodable response.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAPI:
		return "api"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

const (
	MsgCannotConnect   = "Cannot connect to server. Please check your internet connection."
	MsgTimeout         = "Connection timeout. Please try again."
	MsgInvalidResponse = "Server response error. Expected JSON but received invalid data."
	MsgGenericAPI      = "Request failed. Please try again."
)

// AppError carries a Kind alongside the message shown to the user.
type AppError struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation returns a validation error with the given message
func Validation(msg string) error {
	return &AppError{Kind: KindValidation, Message: msg}
}

// Validationf returns a validation error using a format string
func Validationf(format string, args ...interface{}) error {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// API returns a backend failure. An empty message falls back to a generic one.
func API(status int, msg string) error {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = MsgGenericAPI
	}
	return &AppError{Kind: KindAPI, Message: msg, Status: status}
}

// Transport wraps a network or decoding failure.
func Transport(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Kind: KindTransport, Message: transportMessage(err), Err: err}
}

// KindOf reports the Kind of err, or KindUnknown when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status recorded on an API error, or 0.
func StatusOf(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

// Is, As and New re-export the standard helpers so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }

func transportMessage(err error) string {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return MsgTimeout
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr) {
		return MsgInvalidResponse
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unable to resolve host"),
		strings.Contains(lower, "failed to connect"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "connection refused"):
		return MsgCannotConnect
	case strings.Contains(lower, "timeout"):
		return MsgTimeout
	case strings.Contains(lower, "json"):
		return MsgInvalidResponse
	}
	return "Network error: " + msg
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", UserMessage(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
