package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
)

// fakeStrategy is a scriptable Strategy for exercising the retry loop.
type fakeStrategy struct {
	name      string
	available bool
	// failures is the number of Grab calls that fail before the
	// strategy starts succeeding. Negative means fail forever.
	failures int32
	calls    atomic.Int32
}

func (f *fakeStrategy) Name() string    { return f.name }
func (f *fakeStrategy) Available() bool { return f.available }

func (f *fakeStrategy) Grab(_ context.Context, _ media.MediaSource, _ float64, outPath string) error {
	call := f.calls.Add(1)
	if f.failures < 0 || call <= f.failures {
		return fmt.Errorf("%s simulated failure %d", f.name, call)
	}
	return os.WriteFile(outPath, []byte("jpeg-bytes"), 0644)
}

func testSource() media.MediaSource {
	return media.MediaSource{Locator: "video.mp4", RandomAccess: true, Duration: 120}
}

func TestExtractorFirstStrategySucceeds(t *testing.T) {
	primary := &fakeStrategy{name: "primary", available: true}
	fallback := &fakeStrategy{name: "fallback", available: true}
	e := NewExtractor([]Strategy{primary, fallback}, 3, time.Millisecond)

	outPath := filepath.Join(t.TempDir(), "shot.jpg")
	result := e.Capture(context.Background(), testSource(), 10, outPath, nil)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, outPath, result.ImagePath)
	assert.Equal(t, 1, result.Attempts)
	assert.NoError(t, result.Err)
	assert.Equal(t, int32(0), fallback.calls.Load())
}

func TestExtractorFallsBackWhenToolUnavailable(t *testing.T) {
	primary := &fakeStrategy{name: "primary", available: false}
	fallback := &fakeStrategy{name: "fallback", available: true}
	e := NewExtractor([]Strategy{primary, fallback}, 3, time.Millisecond)

	outPath := filepath.Join(t.TempDir(), "shot.jpg")
	result := e.Capture(context.Background(), testSource(), 10, outPath, nil)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.GreaterOrEqual(t, result.Attempts, 1)
	assert.Equal(t, int32(0), primary.calls.Load())
	assert.Equal(t, int32(1), fallback.calls.Load())
}

func TestExtractorFallsBackWhenToolFails(t *testing.T) {
	primary := &fakeStrategy{name: "primary", available: true, failures: -1}
	fallback := &fakeStrategy{name: "fallback", available: true}
	e := NewExtractor([]Strategy{primary, fallback}, 3, time.Millisecond)

	outPath := filepath.Join(t.TempDir(), "shot.jpg")
	result := e.Capture(context.Background(), testSource(), 10, outPath, nil)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Attempts)
}

func TestExtractorRetryExhaustion(t *testing.T) {
	primary := &fakeStrategy{name: "primary", available: true, failures: -1}
	fallback := &fakeStrategy{name: "fallback", available: true, failures: -1}
	e := NewExtractor([]Strategy{primary, fallback}, 3, time.Millisecond)

	var attempts []string
	outPath := filepath.Join(t.TempDir(), "shot.jpg")
	result := e.Capture(context.Background(), testSource(), 10, outPath, func(_ float64, strategy string, _ int, err error) {
		assert.Error(t, err)
		attempts = append(attempts, strategy)
	})

	// Exactly the configured retry budget, then Failed. Never fatal.
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Error(t, result.Err)
	assert.Empty(t, result.ImagePath)
	// Each round walks the full strategy sequence.
	assert.Equal(t, []string{"primary", "fallback", "primary", "fallback", "primary", "fallback"}, attempts)
	assert.NoFileExists(t, outPath)
}

func TestExtractorRecoversOnSecondRound(t *testing.T) {
	primary := &fakeStrategy{name: "primary", available: true, failures: 1}
	fallback := &fakeStrategy{name: "fallback", available: true, failures: 1}
	e := NewExtractor([]Strategy{primary, fallback}, 3, time.Millisecond)

	outPath := filepath.Join(t.TempDir(), "shot.jpg")
	result := e.Capture(context.Background(), testSource(), 10, outPath, nil)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.FileExists(t, outPath)
}

func TestExtractorNoStrategyAvailable(t *testing.T) {
	primary := &fakeStrategy{name: "primary", available: false}
	e := NewExtractor([]Strategy{primary}, 3, time.Millisecond)

	result := e.Capture(context.Background(), testSource(), 10, filepath.Join(t.TempDir(), "shot.jpg"), nil)

	assert.Equal(t, StatusFailed, result.Status)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "no capture strategy available")
}

func TestExtractorHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &fakeStrategy{name: "primary", available: true, failures: -1}
	e := NewExtractor([]Strategy{primary}, 3, time.Second)

	result := e.Capture(ctx, testSource(), 10, filepath.Join(t.TempDir(), "shot.jpg"), nil)

	assert.Equal(t, StatusFailed, result.Status)
	assert.True(t, errors.Is(result.Err, context.Canceled))
	assert.Equal(t, int32(0), primary.calls.Load())
}
