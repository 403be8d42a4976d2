package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gen2brain/mpeg"

	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

type ffprobe struct {
	probeCmd string
	// decodeDuration reports a local file's duration in seconds using
	// the in-process decoder. A field so tests can stand in for it.
	decodeDuration func(path string) (float64, error)
}

func newFfprobe(probeCmd string) ffprobe {
	return ffprobe{probeCmd: probeCmd, decodeDuration: decoderDuration}
}

// Probe determines the total duration of the locator. Local files with
// a known frame rate and frame count get frameCount/frameRate, which is
// the most reliable figure. Everything else degrades in order:
// container-reported duration, in-process decoder duration, caller hint.
func (p ffprobe) Probe(ctx context.Context, locator string, hint float64) (MediaSource, error) {
	src := MediaSource{
		Locator:      locator,
		RandomAccess: isLocalFile(locator),
	}

	fps, frames, reported, err := p.runProbe(ctx, locator)
	if err != nil {
		log.Warn("ffprobe unavailable or failed for %s: %v", locator, err)
		// In-process fallback only works for local MPEG files.
		if src.RandomAccess {
			if d, derr := p.decodeDuration(locator); derr == nil && d > 0 {
				src.Duration = d
				return src, nil
			}
		}
		if hint > 0 {
			src.Duration = hint
			src.Estimated = true
			return src, nil
		}
		return MediaSource{}, fmt.Errorf("cannot open media source %s: %w", locator, err)
	}

	switch {
	case src.RandomAccess && fps > 0 && frames > 0:
		src.Duration = float64(frames) / fps
	case reported > 0:
		src.Duration = reported
	case hint > 0:
		src.Duration = hint
		src.Estimated = true
	default:
		return MediaSource{}, fmt.Errorf("cannot determine duration of media source %s", locator)
	}

	return src, nil
}

// runProbe shells out to ffprobe and extracts frame rate, frame count
// and the container-reported duration from its JSON output.
func (p ffprobe) runProbe(ctx context.Context, locator string) (fps float64, frames int64, duration float64, err error) {
	cmdPath, err := exec.LookPath(p.probeCmd)
	if err != nil {
		return 0, 0, 0, err
	}
	cmd := exec.CommandContext(ctx, cmdPath, p.probeArgs(locator)...)

	output, err := cmd.Output()
	if err != nil {
		return 0, 0, 0, err
	}

	var probeResult struct {
		Streams []struct {
			CodecType    string `json:"codec_type"`
			RFrameRate   string `json:"r_frame_rate"`
			AvgFrameRate string `json:"avg_frame_rate"`
			NbFrames     string `json:"nb_frames"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &probeResult); err != nil {
		return 0, 0, 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, stream := range probeResult.Streams {
		if stream.CodecType != "video" {
			continue
		}
		fps = parseFrameRate(stream.RFrameRate)
		if fps <= 0 {
			fps = parseFrameRate(stream.AvgFrameRate)
		}
		if n, perr := strconv.ParseInt(stream.NbFrames, 10, 64); perr == nil {
			frames = n
		}
		break
	}

	if d, perr := strconv.ParseFloat(strings.TrimSpace(probeResult.Format.Duration), 64); perr == nil {
		duration = d
	}

	return fps, frames, duration, nil
}

func (ffprobe) probeArgs(locator string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-select_streams", "v",
		locator,
	}
}

// parseFrameRate handles ffprobe's rational notation, e.g. "30000/1001".
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// decoderDuration opens the file with the in-process MPEG decoder and
// asks it for the total duration.
func decoderDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	m, err := mpeg.New(f)
	if err != nil {
		return 0, err
	}
	return m.Duration().Seconds(), nil
}

func isLocalFile(locator string) bool {
	info, err := os.Stat(locator)
	return err == nil && info.Mode().IsRegular()
}
