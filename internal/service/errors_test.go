package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorMessage(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewErrorWithCause(ErrSourceUnreadable, "cannot open media source", cause).
		WithContext("locator", "video.mp4")

	msg := err.Error()
	assert.Contains(t, msg, "[SourceUnreadable]")
	assert.Contains(t, msg, "cannot open media source")
	assert.Contains(t, msg, "locator=video.mp4")
	assert.Contains(t, msg, "exit status 1")
}

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewErrorWithCause(ErrAssembly, "failed", cause)
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsType(wrapped, ErrAssembly))
	assert.False(t, IsType(wrapped, ErrNoScreenshots))
	assert.False(t, IsType(errors.New("plain"), ErrAssembly))
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		errType  ErrorType
		expected string
	}{
		{ErrSourceUnreadable, "SourceUnreadable"},
		{ErrNoValidTimestamps, "NoValidTimestamps"},
		{ErrExtraction, "ExtractionFailed"},
		{ErrNoScreenshots, "NoScreenshotsCaptured"},
		{ErrAssembly, "AssemblyFailed"},
		{ErrFetch, "FetchFailed"},
		{ErrUnknown, "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.errType.String())
	}
}
