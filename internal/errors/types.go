package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/conneroisu/metac/internal/arena"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeCapacity   ErrorType = "capacity"
	ErrorTypeContent    ErrorType = "content"
	ErrorTypeInternal   ErrorType = "internal"
)

// MetacError is a structured error type with context.
type MetacError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	FilePath string
	Offset   int
}

// Error implements the error interface.
func (e *MetacError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Offset > 0 {
			location += fmt.Sprintf("@%d", e.Offset)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *MetacError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *MetacError) Is(target error) bool {
	var t *MetacError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *MetacError) WithContext(key string, value interface{}) *MetacError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds file information.
func (e *MetacError) WithFile(filePath string) *MetacError {
	e.FilePath = filePath

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *MetacError {
	return &MetacError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *MetacError {
	return &MetacError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *MetacError {
	return &MetacError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewCapacityError creates an error for an exhausted run region.
func NewCapacityError(cause error) *MetacError {
	return &MetacError{
		Type:    ErrorTypeCapacity,
		Code:    ErrCodeCapacityExceeded,
		Message: "run aborted",
		Cause:   cause,
	}
}

// NewContentError reports that a file produced diagnostics.
func NewContentError(filePath string, count int) *MetacError {
	return &MetacError{
		Type:     ErrorTypeContent,
		Code:     ErrCodeDiagnostics,
		Message:  fmt.Sprintf("%d error(s) reported", count),
		FilePath: filePath,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *MetacError {
	return &MetacError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCapacityError checks if an error comes from an exhausted region.
func IsCapacityError(err error) bool {
	var me *MetacError
	if errors.As(err, &me) && me.Type == ErrorTypeCapacity {
		return true
	}

	return errors.Is(err, arena.ErrCapacityExceeded)
}

// IsContentError checks if an error only reports diagnostics.
func IsContentError(err error) bool {
	var me *MetacError
	if errors.As(err, &me) {
		return me.Type == ErrorTypeContent
	}

	return false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level that matches its type. Content errors are
// not logged.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var me *MetacError
	if !errors.As(err, &me) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch me.Type {
	case ErrorTypeContent:
		// Already reported as diagnostics.
		return
	case ErrorTypeValidation:
		h.logger.Warn(ctx, err, "Input rejected",
			"type", me.Type,
			"code", me.Code,
			"file", me.FilePath)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", me.Type,
			"code", me.Code,
			"file", me.FilePath)
	}
}

// Common error codes.
const (
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeReadFailed       = "ERR_READ_FAILED"
	ErrCodeWriteFailed      = "ERR_WRITE_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeCapacityExceeded = "ERR_CAPACITY_EXCEEDED"
	ErrCodeDiagnostics      = "ERR_DIAGNOSTICS"
	ErrCodeInternalError    = "ERR_INTERNAL"
)
