package errors

import "errors"

// Code identifies a structured error type used across the application.
type Code string

const (
	// Generic codes
	CodeUnknown Code = "unknown"

	// Remote service errors
	CodeConnection  Code = "connection_failed"
	CodeNotFound    Code = "not_found"
	CodeParseFailed Code = "parse_failed"

	// Domain errors
	CodeInvalidWorkItem    Code = "invalid_work_item"
	CodeInvalidQuery       Code = "invalid_query"
	CodeInvalidProject     Code = "invalid_project"
	CodeEmptyQuery         Code = "empty_query"
	CodeConfigurationError Code = "configuration_error"
)

// ConnectionMessage is shown to the user whenever the remote service cannot
// be reached or rejects the credentials.
const ConnectionMessage = "Cannot connect to Azure DevOps. Check domain and PAT."

// Error represents a structured error with a machine-readable code plus message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

// Unwrap returns the wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// New wraps an error with a code/message.
func New(code Code, msg string, err error) Error {
	return Error{Code: code, Message: msg, Err: err}
}

// Connection wraps a transport or auth failure into the presentable
// connection error.
func Connection(err error) Error {
	return New(CodeConnection, ConnectionMessage, err)
}

// CodeOf walks the error chain and returns the first structured code found.
func CodeOf(err error) Code {
	var structured Error
	if errors.As(err, &structured) {
		return structured.Code
	}
	return CodeUnknown
}

// IsCode reports whether the error (or its unwrap chain) matches the provided code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Title returns the short heading used when an error is presented to the user.
func Title(err error) string {
	switch CodeOf(err) {
	case CodeConnection:
		return "Connection error"
	case CodeNotFound:
		return "Not found"
	case CodeParseFailed:
		return "Unexpected response"
	case CodeConfigurationError:
		return "Configuration error"
	default:
		return "Error"
	}
}

// Message returns the message of the first structured error in the chain,
// falling back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var structured Error
	if errors.As(err, &structured) && structured.Message != "" {
		return structured.Message
	}
	return err.Error()
}
