package fetch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockYtdlp installs a fake yt-dlp in PATH. With -j it prints the
// given metadata; with -o it writes a dummy video file instead.
func mockYtdlp(t *testing.T, metadata string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("mock scripts use /bin/sh")
	}

	mockDir := t.TempDir()
	script := `#!/bin/sh
out=""
json=0
prev=""
for arg in "$@"; do
  if [ "$prev" = "-o" ]; then out="$arg"; fi
  if [ "$arg" = "-j" ]; then json=1; fi
  prev="$arg"
done
if [ "$json" = "1" ]; then
  echo '` + metadata + `'
else
  printf 'fake video bytes' > "$out"
fi
exit 0
`
	require.NoError(t, os.WriteFile(filepath.Join(mockDir, "yt-dlp"), []byte(script), 0755))
	t.Setenv("PATH", mockDir+":"+os.Getenv("PATH"))
}

const sampleMetadata = `{
	"title": "Test Video",
	"duration": 120.5,
	"url": "https://cdn.example/selected",
	"formats": [
		{"url": "https://cdn.example/480-avc", "vcodec": "avc1.42001E", "ext": "mp4", "height": 480},
		{"url": "https://cdn.example/720-avc", "vcodec": "avc1.64001F", "ext": "mp4", "height": 720},
		{"url": "https://cdn.example/1440-avc", "vcodec": "avc1.640028", "ext": "mp4", "height": 1440},
		{"url": "https://cdn.example/1080-vp9", "vcodec": "vp09.00.40.08", "ext": "webm", "height": 1080}
	]
}`

func TestResolvePrefersCappedAVC(t *testing.T) {
	mockYtdlp(t, sampleMetadata)

	resolved, err := NewYtdlp("yt-dlp", 1080).Resolve(context.Background(), "https://youtube.example/watch?v=x")
	require.NoError(t, err)

	// Tallest H.264 mp4 at or under the cap; 1440p is over it.
	assert.Equal(t, "https://cdn.example/720-avc", resolved.Locator)
	assert.Equal(t, "Test Video", resolved.Title)
	assert.InDelta(t, 120.5, resolved.Duration, 0.001)
	assert.False(t, resolved.Downloaded)
}

func TestResolveFallsBackToTallestCapped(t *testing.T) {
	mockYtdlp(t, `{
		"title": "No AVC",
		"duration": 60,
		"url": "https://cdn.example/selected",
		"formats": [
			{"url": "https://cdn.example/480-vp9", "vcodec": "vp09", "ext": "webm", "height": 480},
			{"url": "https://cdn.example/1080-vp9", "vcodec": "vp09", "ext": "webm", "height": 1080}
		]
	}`)

	resolved, err := NewYtdlp("yt-dlp", 1080).Resolve(context.Background(), "https://youtube.example/watch?v=x")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/1080-vp9", resolved.Locator)
}

func TestResolveUsesSelectedURLWithoutFormats(t *testing.T) {
	mockYtdlp(t, `{"title": "Bare", "duration": 10, "url": "https://cdn.example/selected", "formats": []}`)

	resolved, err := NewYtdlp("yt-dlp", 1080).Resolve(context.Background(), "https://youtube.example/watch?v=x")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/selected", resolved.Locator)
}

func TestDownloadWritesTempFile(t *testing.T) {
	mockYtdlp(t, sampleMetadata)
	destDir := filepath.Join(t.TempDir(), "temp_video_downloads")

	f := NewYtdlp("yt-dlp", 1080)
	resolved, err := f.Download(context.Background(), "https://youtube.example/watch?v=x", destDir)
	require.NoError(t, err)

	assert.True(t, resolved.Downloaded)
	assert.Equal(t, "Test Video", resolved.Title)
	info, err := os.Stat(resolved.Locator)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Cleanup removes the temp video and its now-empty directory.
	f.Cleanup(resolved)
	assert.NoFileExists(t, resolved.Locator)
	assert.NoDirExists(t, destDir)
}

func TestCleanupIgnoresStreamedSources(t *testing.T) {
	NewYtdlp("yt-dlp", 1080).Cleanup(Resolved{Locator: "https://cdn.example/stream", Downloaded: false})
}

func TestResolveToolMissing(t *testing.T) {
	f := NewYtdlp("definitely-not-yt-dlp", 1080)
	_, err := f.Resolve(context.Background(), "https://youtube.example/watch?v=x")
	assert.Error(t, err)
}
