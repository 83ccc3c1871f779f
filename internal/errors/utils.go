package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Wrap wraps an error with additional context, creating a MetacError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *MetacError {
	if err == nil {
		return nil
	}

	// Keep file and context of an existing MetacError
	var me *MetacError
	if errors.As(err, &me) {
		return &MetacError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    me,
			Context:  me.Context,
			FilePath: me.FilePath,
			Offset:   me.Offset,
		}
	}

	return &MetacError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message, filePath string) *MetacError {
	me := Wrap(err, ErrorTypeIO, code, message)
	if me != nil {
		me.FilePath = filePath
	}
	return me
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *MetacError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var me *MetacError
	if errors.As(err, &me) {
		return me.Error()
	}

	return err.Error()
}

// CombineErrors combines multiple errors into a single error with context
func CombineErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	if len(nonNil) == 1 {
		return nonNil[0]
	}

	messages := make([]string, 0, len(nonNil))
	for _, err := range nonNil {
		messages = append(messages, err.Error())
	}

	return &MetacError{
		Type:    ErrorTypeInternal,
		Code:    "ERR_MULTIPLE_ERRORS",
		Message: fmt.Sprintf("multiple errors occurred: %s", strings.Join(messages, "; ")),
		Cause:   errors.Join(nonNil...),
		Context: map[string]interface{}{
			"error_count": len(nonNil),
		},
	}
}
