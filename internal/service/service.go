package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MimeLyc/video-screenshot-pdf/internal/capture"
	"github.com/MimeLyc/video-screenshot-pdf/internal/config"
	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
	"github.com/MimeLyc/video-screenshot-pdf/internal/pdfgen"
	"github.com/MimeLyc/video-screenshot-pdf/internal/progress"
	"github.com/MimeLyc/video-screenshot-pdf/internal/timestamp"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/file"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

const defaultTitle = "Unknown Video"

// Service wires the pipeline phases together: probe, validate,
// capture, assemble.
type Service struct {
	cfg       config.Config
	prober    media.Prober
	capturer  Capturer
	assembler Assembler
}

func New(cfg config.Config) *Service {
	extractor := capture.NewDefaultExtractor(
		cfg.Capture.FfmpegCmd,
		time.Duration(cfg.Capture.TimeoutSeconds)*time.Second,
		cfg.Capture.JPEGQuality,
		cfg.Capture.MaxRetries,
	)

	return &Service{
		cfg:       cfg,
		prober:    media.NewProber(cfg.Capture.FfprobeCmd),
		capturer:  capture.NewOrchestrator(extractor, cfg.Capture.Workers),
		assembler: pdfgen.NewAssembler(cfg.Dirs.PDFDir),
	}
}

// NewWithParts builds a Service with explicit collaborators.
func NewWithParts(cfg config.Config, prober media.Prober, capturer Capturer, assembler Assembler) *Service {
	return &Service{
		cfg:       cfg,
		prober:    prober,
		capturer:  capturer,
		assembler: assembler,
	}
}

// Run executes one full screenshot-to-PDF run. Per-timestamp capture
// failures are absorbed into the summary; phase failures abort with a
// typed error that names the failing phase.
func (s *Service) Run(ctx context.Context, req Request, onProgress progress.Func) (*Summary, error) {
	emit := progress.OrNop(onProgress)

	// Probe phase. The hint is only a lower bound when derived from
	// the requested timestamps.
	emit(progress.Event{Phase: "probe", Detail: "checking video duration", Percent: 0})

	src, err := s.prober.Probe(ctx, req.Locator, s.durationHint(req))
	if err != nil {
		return nil, NewErrorWithCause(ErrSourceUnreadable, "cannot open media source", err).
			WithContext("locator", req.Locator)
	}
	if src.Estimated {
		log.Warn("duration of %s is estimated from requested timestamps, treat it as a lower bound", req.Locator)
	}
	log.Info("Video duration: %s", time.Duration(src.Duration*float64(time.Second)).Round(time.Second))

	// Validation phase.
	requested := req.Timestamps
	if len(requested) == 0 && req.Interval > 0 {
		requested = timestamp.Intervals(src.Duration, req.Interval)
	}

	valid, dropped := timestamp.Validate(requested, src.Duration)
	if dropped > 0 {
		detail := fmt.Sprintf("%d timestamps were outside video duration (%.2f seconds)", dropped, src.Duration)
		log.Warn("%s", detail)
		emit(progress.Event{Phase: "validate", Detail: detail, Percent: 0})
	}
	if len(valid) == 0 {
		return nil, NewError(ErrNoValidTimestamps, "no valid timestamps to capture").
			WithContext("requested", len(requested)).
			WithContext("duration", src.Duration)
	}

	// Capture phase. Each run gets its own scratch directory so
	// parallel runs never trample each other's images.
	scratchDir := filepath.Join(s.cfg.Dirs.ScreenshotDir, "run-"+uuid.NewString()[:8])

	images, results, err := s.capturer.Run(ctx, src, valid, scratchDir, onProgress)
	if err != nil {
		return nil, NewErrorWithCause(ErrExtraction, "capture phase aborted", err).
			WithContext("locator", req.Locator)
	}
	if len(images) == 0 {
		return nil, NewError(ErrNoScreenshots, "no screenshots were captured").
			WithContext("requested", len(valid))
	}

	// Assembly phase.
	title := req.Title
	if title == "" {
		title = defaultTitle
	}
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = "screenshots.pdf"
	}
	// Whatever extension the caller asked for, the artifact is a PDF.
	outputPath = file.ReplaceExt(outputPath, ".pdf")

	pdfPath, err := s.assembler.Assemble(images, title, outputPath, onProgress)
	if err != nil {
		// Intermediate images survive an assembly failure on purpose:
		// the capture work is done and assembly can be retried.
		return nil, NewErrorWithCause(ErrAssembly, "could not assemble PDF", err).
			WithContext("output", outputPath).
			WithContext("images", len(images))
	}

	emit(progress.Event{Phase: "done", Detail: pdfPath, Percent: 100})

	return &Summary{
		PDFPath:   pdfPath,
		Requested: len(requested),
		Dropped:   dropped,
		Captured:  len(images),
		Results:   results,
	}, nil
}

// durationHint derives the probing fallback: the reported duration if
// the caller has one, otherwise the highest requested timestamp plus a
// safety margin. A heuristic, not ground truth; in interval mode with
// no reported duration there is nothing to derive from.
func (s *Service) durationHint(req Request) float64 {
	hint := req.DurationHint
	for _, t := range req.Timestamps {
		if withMargin := t + s.cfg.Probe.DurationMarginSeconds; withMargin > hint {
			hint = withMargin
		}
	}
	return hint
}
