package service

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	// ErrSourceUnreadable is fatal: the media source could not be
	// opened at all, so no captures run.
	ErrSourceUnreadable ErrorType = iota
	// ErrNoValidTimestamps is fatal: validation left nothing to
	// capture.
	ErrNoValidTimestamps
	// ErrExtraction marks a per-timestamp failure. Non-fatal, recorded
	// and skipped.
	ErrExtraction
	// ErrNoScreenshots is fatal after the capture phase: nothing
	// survived, so there is nothing to assemble.
	ErrNoScreenshots
	// ErrAssembly is fatal but leaves the intermediate images in place
	// so assembly can be retried without re-capturing.
	ErrAssembly
	ErrFetch
	ErrValidation
	ErrConfig
	ErrUnknown
)

type PipelineError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *PipelineError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	e.Context[key] = value
	return e
}

// IsType reports whether err carries the given pipeline error type
// anywhere in its chain.
func IsType(err error, t ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == t
	}
	return false
}

func (t ErrorType) String() string {
	switch t {
	case ErrSourceUnreadable:
		return "SourceUnreadable"
	case ErrNoValidTimestamps:
		return "NoValidTimestamps"
	case ErrExtraction:
		return "ExtractionFailed"
	case ErrNoScreenshots:
		return "NoScreenshotsCaptured"
	case ErrAssembly:
		return "AssemblyFailed"
	case ErrFetch:
		return "FetchFailed"
	case ErrValidation:
		return "ValidationError"
	case ErrConfig:
		return "ConfigError"
	default:
		return "Unknown"
	}
}
