package service

import (
	"context"

	"github.com/MimeLyc/video-screenshot-pdf/internal/capture"
	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
	"github.com/MimeLyc/video-screenshot-pdf/internal/progress"
)

// Request describes one screenshot run. Either Timestamps or Interval
// must be set; when both are set the explicit timestamps win.
type Request struct {
	// Locator is a local path or a direct stream URL, already resolved
	// by the caller (remote acquisition is not this layer's job).
	Locator string
	// Title is used on the PDF title page. Falls back to a generic
	// title when empty.
	Title string
	// Timestamps in seconds, order and duplicates are tolerated.
	Timestamps []float64
	// Interval in seconds generates {0, i, 2i, ...} <= duration when
	// no explicit timestamps are given.
	Interval int
	// DurationHint is an externally reported duration, used only as a
	// probing fallback.
	DurationHint float64
	// OutputPath of the PDF. A bare filename lands in the configured
	// PDF directory. Empty picks a default name.
	OutputPath string
}

// Summary is the aggregate outcome of a successful run.
type Summary struct {
	PDFPath   string
	Requested int
	Dropped   int
	Captured  int
	Results   []capture.Result
}

// Capturer runs the capture phase. Satisfied by *capture.Orchestrator.
type Capturer interface {
	Run(ctx context.Context, src media.MediaSource, timestamps []float64, scratchDir string, onProgress progress.Func) ([]string, []capture.Result, error)
}

// Assembler writes the final document. Satisfied by *pdfgen.Assembler.
type Assembler interface {
	Assemble(images []string, title, outputPath string, onProgress progress.Func) (string, error)
}
