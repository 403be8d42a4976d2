package capture

import (
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"time"

	"github.com/gen2brain/mpeg"

	"github.com/MimeLyc/video-screenshot-pdf/internal/media"
)

// decodeGrab seeks with the in-process MPEG decoder. Frame-count based
// seeking, no external tool required, but it only handles local files
// the decoder can open. Every Grab opens its own decoder handle, so
// concurrent captures never share decoder state.
type decodeGrab struct {
	quality int
}

func NewDecodeStrategy(jpegQuality int) Strategy {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 95
	}
	return decodeGrab{quality: jpegQuality}
}

func (decodeGrab) Name() string {
	return "decode"
}

func (decodeGrab) Available() bool {
	return true
}

// seekOffset converts a frame index to the decoder's timeline. The
// decoder seeks by elapsed time, so the index has to go back through
// the frame rate before the nanosecond conversion.
func seekOffset(frameIdx int, fps float64) time.Duration {
	return time.Duration(float64(frameIdx) / fps * float64(time.Second))
}

func (g decodeGrab) Grab(ctx context.Context, src media.MediaSource, ts float64, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !src.RandomAccess {
		return fmt.Errorf("decode seek needs a local file, got %s", src.Locator)
	}

	f, err := os.Open(src.Locator)
	if err != nil {
		return fmt.Errorf("open %s: %w", src.Locator, err)
	}
	defer f.Close()

	m, err := mpeg.New(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", src.Locator, err)
	}

	fps := m.Framerate()
	if fps <= 0 {
		return fmt.Errorf("decoder reports no frame rate for %s", src.Locator)
	}

	frameIdx := int(ts * fps)
	if frameIdx < 0 {
		frameIdx = 0
	}

	frame := m.SeekFrame(seekOffset(frameIdx, fps), true)
	if frame == nil {
		return fmt.Errorf("decoder returned no frame at %.2fs (frame %d)", ts, frameIdx)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := jpeg.Encode(out, frame.YCbCr(), &jpeg.Options{Quality: g.quality}); err != nil {
		return fmt.Errorf("encode frame at %.2fs: %w", ts, err)
	}
	return nil
}
