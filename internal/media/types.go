package media

import "context"

// MediaSource describes one playable input for a run. It is built once
// by the prober and never mutated afterwards.
type MediaSource struct {
	// Locator is a local path or a direct stream URL.
	Locator string
	// RandomAccess reports whether the locator is a local regular file
	// that backends can seek in freely.
	RandomAccess bool
	// Duration is the probed total duration in seconds. When Estimated
	// is set it is a lower bound derived from the requested timestamps,
	// not a real probe result.
	Duration  float64
	Estimated bool
}

type Prober interface {
	// Probe opens the locator and determines its duration. hint is the
	// caller-side fallback (reported duration or max requested
	// timestamp plus margin) used when no backend can report one.
	Probe(ctx context.Context, locator string, hint float64) (MediaSource, error)
}

// NewProber returns the ffprobe-backed Prober. probeCmd is the binary
// name or path to invoke, usually "ffprobe".
func NewProber(probeCmd string) Prober {
	return newFfprobe(probeCmd)
}
