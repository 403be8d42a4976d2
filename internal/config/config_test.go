package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnvDefaults(t *testing.T) {
	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.Capture.FfmpegCmd)
	assert.Equal(t, "ffprobe", cfg.Capture.FfprobeCmd)
	assert.Equal(t, 3, cfg.Capture.MaxRetries)
	assert.Equal(t, 15, cfg.Capture.TimeoutSeconds)
	assert.Equal(t, 1, cfg.Capture.Workers)
	assert.Equal(t, 95, cfg.Capture.JPEGQuality)
	assert.Equal(t, 60.0, cfg.Probe.DurationMarginSeconds)
	assert.Equal(t, "yt-dlp", cfg.Fetch.YtdlpCmd)
	assert.Equal(t, 1080, cfg.Fetch.MaxHeight)
	assert.Contains(t, cfg.Dirs.ScreenshotDir, "high_res_screenshots")
	assert.Contains(t, cfg.Dirs.PDFDir, "PDF")
}

func TestNewFromEnvOverrides(t *testing.T) {
	t.Setenv("FFMPEG_CMD", "/opt/bin/ffmpeg")
	t.Setenv("CAPTURE_MAX_RETRIES", "5")
	t.Setenv("CAPTURE_WORKERS", "4")
	t.Setenv("JPEG_QUALITY", "80")
	t.Setenv("DURATION_MARGIN", "30.5")
	t.Setenv("SCREENSHOT_DIR", "/tmp/shots")
	t.Setenv("LOG_FILE", "/tmp/run.log")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/ffmpeg", cfg.Capture.FfmpegCmd)
	assert.Equal(t, 5, cfg.Capture.MaxRetries)
	assert.Equal(t, 4, cfg.Capture.Workers)
	assert.Equal(t, 80, cfg.Capture.JPEGQuality)
	assert.Equal(t, 30.5, cfg.Probe.DurationMarginSeconds)
	assert.Equal(t, "/tmp/shots", cfg.Dirs.ScreenshotDir)
	assert.Equal(t, "/tmp/run.log", cfg.System.LogFile)
}

func TestNewFromEnvInvalidNumberFallsBack(t *testing.T) {
	t.Setenv("CAPTURE_MAX_RETRIES", "many")

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Capture.MaxRetries)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero retries", key: "CAPTURE_MAX_RETRIES", value: "0"},
		{name: "zero timeout", key: "CAPTURE_TIMEOUT", value: "0"},
		{name: "negative workers", key: "CAPTURE_WORKERS", value: "-1"},
		{name: "quality too high", key: "JPEG_QUALITY", value: "101"},
		{name: "quality zero", key: "JPEG_QUALITY", value: "0"},
		{name: "negative margin", key: "DURATION_MARGIN", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg, err := NewFromEnv(func(c *Config) {
		c.Capture.Workers = 8
	})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Capture.Workers)
}
