package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tides-mcp/tides/internal/config"
	"github.com/tides-mcp/tides/internal/tides"
)

// Exit codes for CLI commands.
const (
	ExitSuccess   = 0 // Successful execution
	ExitUserError = 1 // Bad input, unknown tide, invalid transition
	ExitSysError  = 2 // Store unreadable, unwritable or busy
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode maps err to a process exit code. Store failures are system
// errors; everything else is the user's to fix.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, tides.ErrStoreWrite),
		errors.Is(err, tides.ErrStoreBusy),
		errors.Is(err, tides.ErrStoreUnavailable),
		errors.Is(err, tides.ErrCorruptStore):
		return ExitSysError
	default:
		return ExitUserError
	}
}

// errorCode is the machine-readable error kind in json/yaml output.
func errorCode(err error) string {
	switch {
	case errors.Is(err, tides.ErrValidation):
		return "validation"
	case errors.Is(err, tides.ErrNotFound):
		return "not_found"
	case errors.Is(err, tides.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, tides.ErrStoreBusy):
		return "store_busy"
	case errors.Is(err, tides.ErrCorruptStore):
		return "corrupt_store"
	case errors.Is(err, tides.ErrStoreWrite), errors.Is(err, tides.ErrStoreUnavailable):
		return "store_error"
	case errors.Is(err, config.ErrInvalidConfig):
		return "invalid_config"
	}
	if ExitCode(err) == ExitSysError {
		return "internal"
	}
	return "usage"
}

// OutputFormatter renders command results as text, JSON or YAML.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Text-mode errors; defaults to Writer
}

// CLIResponse is the envelope for json and yaml output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Success outputs data, or text in text mode.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "text" {
		_, err := io.WriteString(f.Writer, text)
		return err
	}
	return f.encode(CLIResponse{Status: "ok", Data: data})
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "text" {
		w := f.ErrWriter
		if w == nil {
			w = f.Writer
		}
		_, err := fmt.Fprintf(w, "Error: %s\n", message)
		return err
	}
	return f.encode(CLIResponse{Status: "error", Error: &CLIError{Code: code, Message: message}})
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	// YAML keys follow the JSON field names of the payload.
	generic, err := toGeneric(resp)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// toGeneric round-trips v through JSON into maps and slices.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
