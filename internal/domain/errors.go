package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrUnsupportedFileType = fmt.Errorf("%w: unsupported file type", ErrValidation)
	ErrFileTooLarge        = fmt.Errorf("%w: file exceeds maximum allowed size", ErrValidation)
	ErrEmptyUpload         = fmt.Errorf("%w: upload is empty", ErrValidation)
	ErrIncompleteUpload    = fmt.Errorf("%w: upload stream ended early", ErrValidation)
	ErrProbeFailed         = errors.New("media probe failed")
	ErrInvalidMediaMeta    = errors.New("invalid media metadata")
	ErrOptimizationFailed  = errors.New("media optimization failed")
	ErrRelocationFailed    = errors.New("upload to object storage failed")
	ErrStorageIO           = errors.New("local storage i/o failed")
	ErrInvalidStorageRef   = errors.New("invalid storage reference")
)

// ToolError describes a failed external tool invocation. The captured
// diagnostic output is meant for logs, never for API responses.
type ToolError struct {
	Kind     error
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with code %d", e.Kind, e.Tool, e.ExitCode)
	if e.Err != nil && e.ExitCode < 0 {
		msg = fmt.Sprintf("%s: %s: %v", e.Kind, e.Tool, e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap exposes both the failure kind and the underlying cause to errors.Is.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
