package capture

import (
	"context"

	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result records the outcome of capturing one timestamp. A failed
// result keeps the last error so the summary can say which strategy
// gave up on which timestamp without re-running.
type Result struct {
	Timestamp float64
	Status    Status
	ImagePath string
	// Attempts is the number of retry rounds used. Each round tries
	// every available strategy once.
	Attempts int
	Err      error
}

// Strategy is one way of getting a single frame out of a media source.
// Strategies are tried in registration order; a new seek backend plugs
// in without touching the retry loop.
type Strategy interface {
	Name() string
	// Available reports whether the strategy can run on this host at
	// all, e.g. whether its external tool is installed.
	Available() bool
	// Grab writes exactly one frame at the given timestamp to outPath.
	Grab(ctx context.Context, src media.MediaSource, ts float64, outPath string) error
}

// AttemptFunc observes individual grab attempts. err is nil on
// success.
type AttemptFunc func(ts float64, strategy string, attempt int, err error)
