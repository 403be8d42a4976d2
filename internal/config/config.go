package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Capture Configuration:
// - FFMPEG_CMD: ffmpeg command name or path (default: ffmpeg)
// - FFPROBE_CMD: ffprobe command name or path (default: ffprobe)
// - CAPTURE_MAX_RETRIES: retry rounds per timestamp (default: 3)
// - CAPTURE_TIMEOUT: seconds before a stuck ffmpeg call is killed (default: 15)
// - CAPTURE_WORKERS: concurrent captures, 1 = sequential (default: 1)
// - JPEG_QUALITY: quality for decode-seek screenshots (default: 95)
//
// Probe Configuration:
// - DURATION_MARGIN: safety margin in seconds added to the highest
//   requested timestamp when no backend can report a duration (default: 60)
//
// Directory Configuration:
// - SCREENSHOT_DIR: scratch directory for intermediate images (default: high_res_screenshots)
// - PDF_DIR: default directory for output PDFs (default: PDF)
// - TEMP_DIR: directory for downloaded videos (default: temp_video_downloads)
//
// Fetch Configuration:
// - YTDLP_CMD: yt-dlp command name or path (default: yt-dlp)
// - FETCH_MAX_HEIGHT: preferred maximum video height (default: 1080)
//
// System Configuration:
// - LOG_LEVEL: debug/info/warn/error/fatal (default: info)
// - LOG_FILE: append log output to this file instead of stdout (default: unset)

type Config struct {
	Capture CaptureConfig `json:"capture"`
	Probe   ProbeConfig   `json:"probe"`
	Dirs    DirConfig     `json:"dirs"`
	Fetch   FetchConfig   `json:"fetch"`
	System  SystemConfig  `json:"system"`
}

// CaptureConfig holds the configuration for the frame extractor and
// the capture orchestrator.
type CaptureConfig struct {
	FfmpegCmd      string `json:"ffmpeg_cmd"`
	FfprobeCmd     string `json:"ffprobe_cmd"`
	MaxRetries     int    `json:"max_retries"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Workers        int    `json:"workers"`
	JPEGQuality    int    `json:"jpeg_quality"`
}

// ProbeConfig holds the configuration for duration probing.
type ProbeConfig struct {
	DurationMarginSeconds float64 `json:"duration_margin_seconds"`
}

// DirConfig holds the directory layout. Directories are explicit
// configuration rather than process-wide globals so multiple runs can
// execute without interference.
type DirConfig struct {
	ScreenshotDir string `json:"screenshot_dir"`
	PDFDir        string `json:"pdf_dir"`
	TempDir       string `json:"temp_dir"`
}

// FetchConfig holds the configuration for remote video acquisition.
type FetchConfig struct {
	YtdlpCmd  string `json:"ytdlp_cmd"`
	MaxHeight int    `json:"max_height"`
}

// SystemConfig holds the system configuration.
type SystemConfig struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	// Optional .env file, ignored when absent.
	_ = godotenv.Load()

	cwd, _ := os.Getwd()

	config := &Config{
		Capture: CaptureConfig{
			FfmpegCmd:      getEnvString("FFMPEG_CMD", "ffmpeg"),
			FfprobeCmd:     getEnvString("FFPROBE_CMD", "ffprobe"),
			MaxRetries:     getEnvInt("CAPTURE_MAX_RETRIES", 3),
			TimeoutSeconds: getEnvInt("CAPTURE_TIMEOUT", 15),
			Workers:        getEnvInt("CAPTURE_WORKERS", 1),
			JPEGQuality:    getEnvInt("JPEG_QUALITY", 95),
		},
		Probe: ProbeConfig{
			DurationMarginSeconds: getEnvFloat("DURATION_MARGIN", 60),
		},
		Dirs: DirConfig{
			ScreenshotDir: getEnvString("SCREENSHOT_DIR", filepath.Join(cwd, "high_res_screenshots")),
			PDFDir:        getEnvString("PDF_DIR", filepath.Join(cwd, "PDF")),
			TempDir:       getEnvString("TEMP_DIR", filepath.Join(cwd, "temp_video_downloads")),
		},
		Fetch: FetchConfig{
			YtdlpCmd:  getEnvString("YTDLP_CMD", "yt-dlp"),
			MaxHeight: getEnvInt("FETCH_MAX_HEIGHT", 1080),
		},
		System: SystemConfig{
			LogLevel: getEnvString("LOG_LEVEL", "info"),
			LogFile:  getEnvString("LOG_FILE", ""),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: %+v", config)
	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Capture.MaxRetries <= 0 {
		return fmt.Errorf("CAPTURE_MAX_RETRIES must be positive")
	}
	if c.Capture.TimeoutSeconds <= 0 {
		return fmt.Errorf("CAPTURE_TIMEOUT must be positive")
	}
	if c.Capture.Workers <= 0 {
		return fmt.Errorf("CAPTURE_WORKERS must be positive")
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be in [1, 100]")
	}
	if c.Probe.DurationMarginSeconds < 0 {
		return fmt.Errorf("DURATION_MARGIN must not be negative")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
