package capture

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
)

// ffmpegGrab seeks with the ffmpeg CLI. Container-index based seeking,
// so it is fast and works on stream URLs, but it needs the tool on the
// host and each invocation is a full process spawn.
type ffmpegGrab struct {
	ffmpegCmd string
	timeout   time.Duration
}

func NewFfmpegStrategy(ffmpegCmd string, timeout time.Duration) Strategy {
	if ffmpegCmd == "" {
		ffmpegCmd = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return ffmpegGrab{ffmpegCmd: ffmpegCmd, timeout: timeout}
}

func (g ffmpegGrab) Name() string {
	return "ffmpeg"
}

func (g ffmpegGrab) Available() bool {
	_, err := exec.LookPath(g.ffmpegCmd)
	return err == nil
}

func (g ffmpegGrab) Grab(ctx context.Context, src media.MediaSource, ts float64, outPath string) error {
	cmdPath, err := exec.LookPath(g.ffmpegCmd)
	if err != nil {
		return err
	}

	// The timeout context kills a stuck ffmpeg process instead of
	// letting one bad seek stall the whole run.
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cmdPath, g.grabArgs(src.Locator, ts, outPath)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg seek at %.2fs: %w, output: %s", ts, err, string(output))
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("ffmpeg exited cleanly but produced no frame at %.2fs", ts)
	}
	return nil
}

func (ffmpegGrab) grabArgs(locator string, ts float64, outPath string) []string {
	return []string{
		"-y",
		"-ss", strconv.FormatFloat(ts, 'f', -1, 64),
		"-i", locator,
		"-frames:v", "1", // single frame
		"-q:v", "1", // highest quality
		outPath,
	}
}
