package capture

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
	"github.com/MimeLyc/video-screenshot-pdf/internal/progress"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/file"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

// Orchestrator drives the extractor across a validated ascending
// timestamp list and reassembles the results in timestamp order.
type Orchestrator struct {
	extractor *Extractor
	// workers bounds concurrent captures. 1 means fully sequential,
	// which matches process-per-call ffmpeg overhead dominating the
	// runtime anyway.
	workers int
}

func NewOrchestrator(extractor *Extractor, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		extractor: extractor,
		workers:   workers,
	}
}

// Run captures every timestamp into scratchDir and returns the image
// paths of the successful captures in ascending timestamp order,
// together with the per-timestamp results. Failures are omitted from
// the path list, never reordered around. Page order is timestamp
// order, not completion order, so results land in a slot per input
// index regardless of which worker finishes first.
func (o *Orchestrator) Run(
	ctx context.Context,
	src media.MediaSource,
	timestamps []float64,
	scratchDir string,
	onProgress progress.Func,
) ([]string, []Result, error) {
	emit := progress.OrNop(onProgress)

	if _, err := file.EnsureDir(scratchDir); err != nil {
		return nil, nil, fmt.Errorf("create scratch directory %s: %w", scratchDir, err)
	}

	results := make([]Result, len(timestamps))
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, ts := range timestamps {
		i, ts := i, ts
		g.Go(func() error {
			outPath := filepath.Join(scratchDir, ImageFilename(i+1, ts))

			results[i] = o.extractor.Capture(ctx, src, ts, outPath, func(ats float64, strategy string, attempt int, err error) {
				if err != nil {
					log.Debug("capture attempt %d via %s at %.2fs failed: %v", attempt, strategy, ats, err)
					return
				}
				log.Debug("captured frame at %.2fs via %s (attempt %d)", ats, strategy, attempt)
			})

			done := completed.Add(1)
			detail := fmt.Sprintf("captured screenshot %d/%d at %.0fs", done, len(timestamps), ts)
			if results[i].Status != StatusSuccess {
				detail = fmt.Sprintf("failed screenshot at %.0fs after %d attempts: %v", ts, results[i].Attempts, results[i].Err)
				log.Warn("%s", detail)
			}
			emit(progress.Event{
				Phase:   "capture",
				Detail:  detail,
				Percent: float64(done) / float64(len(timestamps)) * 100,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, results, err
	}

	images := make([]string, 0, len(results))
	for _, r := range results {
		if r.Status == StatusSuccess {
			images = append(images, r.ImagePath)
		}
	}

	log.Info("Successfully captured %d/%d screenshots", len(images), len(timestamps))
	return images, results, nil
}

// ImageFilename encodes the per-run sequence index and the truncated
// timestamp. The zero-padded index keeps lexical order equal to
// timestamp order and makes collisions between timestamps impossible.
func ImageFilename(index int, ts float64) string {
	return fmt.Sprintf("screenshot_%03d_%ds.jpg", index, int(ts))
}
