package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
)

// Extractor captures one frame per call, walking an ordered strategy
// list under a bounded retry budget.
type Extractor struct {
	strategies []Strategy
	maxRetries int
	backoff    time.Duration
}

func NewExtractor(strategies []Strategy, maxRetries int, backoff time.Duration) *Extractor {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Extractor{
		strategies: strategies,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// NewDefaultExtractor builds the standard two-strategy chain: precise
// ffmpeg seek first, in-process decode seek as fallback.
func NewDefaultExtractor(ffmpegCmd string, timeout time.Duration, jpegQuality, maxRetries int) *Extractor {
	return NewExtractor(
		[]Strategy{
			NewFfmpegStrategy(ffmpegCmd, timeout),
			NewDecodeStrategy(jpegQuality),
		},
		maxRetries,
		time.Second,
	)
}

// Capture tries every available strategy in order, retrying the whole
// sequence with a fixed backoff until the retry budget runs out. A
// failed capture is reported, not raised: one bad timestamp must not
// sink the rest of the run.
func (e *Extractor) Capture(ctx context.Context, src media.MediaSource, ts float64, outPath string, onAttempt AttemptFunc) Result {
	result := Result{
		Timestamp: ts,
		Status:    StatusFailed,
	}

	for retry := 0; retry < e.maxRetries; retry++ {
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			return result
		}
		result.Attempts = retry + 1

		for _, strategy := range e.strategies {
			if !strategy.Available() {
				continue
			}
			if ctx.Err() != nil {
				result.Err = ctx.Err()
				return result
			}

			err := strategy.Grab(ctx, src, ts, outPath)
			if onAttempt != nil {
				onAttempt(ts, strategy.Name(), result.Attempts, err)
			}
			if err == nil {
				result.Status = StatusSuccess
				result.ImagePath = outPath
				result.Err = nil
				return result
			}
			result.Err = fmt.Errorf("%s: %w", strategy.Name(), err)
			// A failed attempt may leave a zero-byte or truncated file
			// behind; remove it so the next attempt starts clean.
			_ = os.Remove(outPath)
		}

		if result.Err == nil {
			result.Err = fmt.Errorf("no capture strategy available on this host")
			return result
		}

		if retry < e.maxRetries-1 {
			select {
			case <-ctx.Done():
				result.Err = ctx.Err()
				return result
			case <-time.After(e.backoff):
			}
		}
	}

	return result
}
