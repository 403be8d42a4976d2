package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/MimeLyc/video-screenshot-pdf/pkg/file"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

// Resolved is what the pipeline needs from a remote video: a playable
// locator plus whatever the resolver reported about it.
type Resolved struct {
	Locator    string
	Title      string
	Duration   float64
	Downloaded bool
}

// Fetcher turns a remote video reference into a playable locator. The
// pipeline core never imports this package; only the front-end wires
// it in.
type Fetcher interface {
	// Resolve picks a direct stream URL without downloading anything.
	Resolve(ctx context.Context, videoURL string) (Resolved, error)
	// Download fetches the video into destDir first. Slower but
	// immune to connection hiccups during capture.
	Download(ctx context.Context, videoURL, destDir string) (Resolved, error)
	// Cleanup removes a downloaded temporary file again.
	Cleanup(r Resolved)
}

type ytdlp struct {
	ytdlpCmd  string
	maxHeight int
}

func NewYtdlp(cmd string, maxHeight int) Fetcher {
	if cmd == "" {
		cmd = "yt-dlp"
	}
	if maxHeight <= 0 {
		maxHeight = 1080
	}
	return ytdlp{ytdlpCmd: cmd, maxHeight: maxHeight}
}

type videoInfo struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	URL      string  `json:"url"`
	Formats  []struct {
		URL    string  `json:"url"`
		Vcodec string  `json:"vcodec"`
		Ext    string  `json:"ext"`
		Height float64 `json:"height"`
	} `json:"formats"`
}

func (y ytdlp) Resolve(ctx context.Context, videoURL string) (Resolved, error) {
	info, err := y.probe(ctx, videoURL)
	if err != nil {
		return Resolved{}, err
	}

	streamURL := y.bestStreamURL(info)
	if streamURL == "" {
		return Resolved{}, fmt.Errorf("no playable format found for %s", videoURL)
	}

	return Resolved{
		Locator:  streamURL,
		Title:    info.Title,
		Duration: info.Duration,
	}, nil
}

func (y ytdlp) Download(ctx context.Context, videoURL, destDir string) (Resolved, error) {
	if _, err := file.EnsureDir(destDir); err != nil {
		return Resolved{}, err
	}

	info, err := y.probe(ctx, videoURL)
	if err != nil {
		return Resolved{}, err
	}

	cmdPath, err := exec.LookPath(y.ytdlpCmd)
	if err != nil {
		return Resolved{}, err
	}

	outPath := filepath.Join(destDir, fmt.Sprintf("temp_video_%d.mp4", time.Now().Unix()))
	startTime := time.Now()

	log.Info("Downloading video to temporary file, this may take a moment...")
	cmd := exec.CommandContext(ctx, cmdPath, y.downloadArgs(videoURL, outPath)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return Resolved{}, fmt.Errorf("yt-dlp download: %w, output: %s", err, string(output))
	}

	if stat, err := os.Stat(outPath); err != nil || stat.Size() == 0 {
		// yt-dlp sometimes appends its own extension; pick up whatever
		// it actually wrote since the download started.
		written, ferr := file.FindRecentAfter(destDir, startTime.Add(-time.Second))
		if ferr != nil || len(written) == 0 {
			return Resolved{}, fmt.Errorf("download of %s produced no file", videoURL)
		}
		outPath = written[0]
	}

	log.Info("Video downloaded successfully to: %s", outPath)
	return Resolved{
		Locator:    outPath,
		Title:      info.Title,
		Duration:   info.Duration,
		Downloaded: true,
	}, nil
}

func (y ytdlp) Cleanup(r Resolved) {
	if !r.Downloaded {
		return
	}
	if err := os.Remove(r.Locator); err != nil {
		log.Warn("failed to clean up temporary video %s: %v", r.Locator, err)
		return
	}
	file.RemoveDirIfEmpty(filepath.Dir(r.Locator))
}

func (y ytdlp) probe(ctx context.Context, videoURL string) (*videoInfo, error) {
	cmdPath, err := exec.LookPath(y.ytdlpCmd)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, cmdPath, y.probeArgs(videoURL)...)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata for %s: %w", videoURL, err)
	}

	var info videoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	return &info, nil
}

// bestStreamURL prefers an H.264 mp4 at or below the height cap, the
// codec the seek backends handle most reliably, and falls back to the
// tallest capped format, then to whatever yt-dlp itself selected.
func (y ytdlp) bestStreamURL(info *videoInfo) string {
	var best, tallest string
	var bestHeight, tallestHeight float64

	for _, f := range info.Formats {
		if f.URL == "" || f.Height > float64(y.maxHeight) {
			continue
		}
		if f.Height > tallestHeight {
			tallest, tallestHeight = f.URL, f.Height
		}
		if f.Ext == "mp4" && strings.Contains(f.Vcodec, "avc") && f.Height > bestHeight {
			best, bestHeight = f.URL, f.Height
		}
	}

	if best != "" {
		return best
	}
	if tallest != "" {
		return tallest
	}
	return info.URL
}

func (y ytdlp) formatSpec() string {
	h := y.maxHeight
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", h, h)
}

func (y ytdlp) probeArgs(videoURL string) []string {
	return []string{
		"-j", // single-line JSON metadata, no download
		"--no-warnings",
		"-f", y.formatSpec(),
		videoURL,
	}
}

func (y ytdlp) downloadArgs(videoURL, outPath string) []string {
	return []string{
		"--no-warnings",
		"--socket-timeout", "30",
		"-f", y.formatSpec(),
		"-o", outPath,
		videoURL,
	}
}
