package pdfgen

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/MimeLyc/video-screenshot-pdf/internal/progress"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/file"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

const pageMargin = 20 // points, uniform on all sides

// Assembler lays captured images out as one A4 landscape PDF: a title
// page followed by one full-bleed image per page, in the order the
// images are handed in.
type Assembler struct {
	// defaultDir receives output paths that carry no directory
	// component of their own.
	defaultDir string
}

func NewAssembler(defaultDir string) *Assembler {
	return &Assembler{defaultDir: defaultDir}
}

// Assemble writes the PDF and returns its final path. The assembler
// owns the image files for the duration of the write: after a
// successful write they are deleted and their directory is removed if
// now empty. On failure they are left in place so the caller can retry
// assembly without re-capturing anything.
func (a *Assembler) Assemble(images []string, title, outputPath string, onProgress progress.Func) (string, error) {
	emit := progress.OrNop(onProgress)

	if filepath.Dir(outputPath) == "." {
		outputPath = filepath.Join(a.defaultDir, outputPath)
	}
	if _, err := file.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	pdf := fpdf.New("L", "pt", "A4", "")
	pageW, pageH := pdf.GetPageSize()
	boxW := pageW - 2*pageMargin
	boxH := pageH - 2*pageMargin

	a.addTitlePage(pdf, SanitizeTitle(title), len(images))

	for i, img := range images {
		pdf.AddPage()

		info := pdf.RegisterImageOptions(img, fpdf.ImageOptions{})
		if pdf.Err() {
			return "", fmt.Errorf("read image %s: %s", img, pdf.Error())
		}

		// Fit inside the margin box keeping aspect ratio. Stretching
		// to the box would distort the frame; cropping would lose
		// content. Centered letterboxing does neither.
		imgW, imgH := info.Extent()
		scale := math.Min(boxW/imgW, boxH/imgH)
		drawW := imgW * scale
		drawH := imgH * scale
		x := pageMargin + (boxW-drawW)/2
		y := pageMargin + (boxH-drawH)/2

		pdf.ImageOptions(img, x, y, drawW, drawH, false, fpdf.ImageOptions{}, 0, "")
		if pdf.Err() {
			return "", fmt.Errorf("place image %s: %s", img, pdf.Error())
		}

		emit(progress.Event{
			Phase:   "assemble",
			Detail:  fmt.Sprintf("added page %d/%d", i+1, len(images)),
			Percent: float64(i+1) / float64(len(images)) * 100,
		})
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("write PDF %s: %w", outputPath, err)
	}

	a.retireImages(images)

	log.Info("PDF created successfully: %s", outputPath)
	return outputPath, nil
}

func (a *Assembler) addTitlePage(pdf *fpdf.Fpdf, sanitizedTitle string, imageCount int) {
	pdf.AddPage()

	pdf.SetFont("Times", "B", 28)
	pdf.CellFormat(0, 60, "Screenshots from:", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 32)
	for _, line := range WrapTitle(sanitizedTitle) {
		pdf.CellFormat(0, 30, line, "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Times", "", 18)
	pdf.CellFormat(0, 40, fmt.Sprintf("Total screenshots: %d", imageCount), "", 1, "C", false, 0, "")
}

// retireImages deletes the consumed intermediate files. The document
// is already on disk at this point, so deletion problems are warnings,
// not failures.
func (a *Assembler) retireImages(images []string) {
	for _, img := range images {
		if err := os.Remove(img); err != nil {
			log.Warn("could not delete temporary image %s: %v", img, err)
		}
	}
	if len(images) > 0 {
		file.RemoveDirIfEmpty(filepath.Dir(images[0]))
	}
}
