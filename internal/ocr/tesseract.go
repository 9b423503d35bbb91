package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ocr-extract/internal/geometry"
)

// Tesseract is the Engine implementation backed by the Tesseract OCR engine
// via gosseract.
//
// Tesseract must be installed on the system, along with the language data
// files for every requested language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-<lang>
//   - macOS: brew install tesseract
//
// Each Recognize call creates a fresh gosseract client, so the zero value is
// ready to use and holds no resources between calls.
type Tesseract struct {
	// TessdataPrefix optionally overrides the directory Tesseract loads
	// its training data from. Empty means the system default.
	TessdataPrefix string
}

// Recognize performs line-level OCR on img.
//
// The image is handed to Tesseract through a temporary PNG file (Tesseract
// needs a file path), which is removed before Recognize returns. Line
// geometry comes from Tesseract's RIL_TEXTLINE iterator and is converted
// from pixel coordinates into the engine-native unit-square y-up space the
// Engine contract specifies. Lines shorter than cfg.MinTextHeight of the
// image height are dropped, matching an engine that cannot see text below
// its minimum height.
func (t *Tesseract) Recognize(img image.Image, cfg RequestConfig) ([]RawObservation, error) {
	tmpPath, err := saveTempPNG(img)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if len(cfg.Languages) > 0 {
		if err := client.SetLanguage(cfg.Languages...); err != nil {
			return nil, fmt.Errorf("failed to set languages: %w", err)
		}
	}

	// Accurate mode does full automatic page segmentation; fast mode only
	// sweeps for sparse text.
	psm := gosseract.PSM_SPARSE_TEXT
	if cfg.Accurate {
		psm = gosseract.PSM_AUTO
	}
	if err := client.SetPageSegMode(psm); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if !cfg.LanguageCorrection {
		// Without correction, Tesseract's dictionary-based rescoring is
		// disabled and raw character results are kept.
		if err := client.SetVariable("load_system_dawg", "F"); err != nil {
			return nil, fmt.Errorf("failed to disable system dictionary: %w", err)
		}
		if err := client.SetVariable("load_freq_dawg", "F"); err != nil {
			return nil, fmt.Errorf("failed to disable frequency dictionary: %w", err)
		}
	}

	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}
	if boxes == nil {
		return nil, fmt.Errorf("%w: engine returned no result set", ErrNoText)
	}

	bounds := img.Bounds()
	return boxesToObservations(boxes, bounds.Dx(), bounds.Dy(), cfg.MinTextHeight), nil
}

// boxesToObservations converts Tesseract line boxes into engine-native
// observations, dropping lines below the minimum text height.
func boxesToObservations(boxes []gosseract.BoundingBox, width, height int, minTextHeight float64) []RawObservation {
	minPx := minTextHeight * float64(height)

	obs := make([]RawObservation, 0, len(boxes))
	for _, box := range boxes {
		if float64(box.Box.Dy()) < minPx {
			continue
		}
		obs = append(obs, RawObservation{
			Candidates: []string{strings.TrimSpace(box.Word)},
			Confidence: box.Confidence / 100.0,
			Quad:       pixelBoxToQuad(box.Box, width, height),
		})
	}
	return obs
}

// pixelBoxToQuad maps a pixel-space rectangle (top-left origin, y-down) into
// the engine-native unit square (bottom-left origin, y-up), preserving
// corner identity: TopLeft stays the visually top-left corner.
func pixelBoxToQuad(r image.Rectangle, width, height int) geometry.Quadrilateral {
	w := float64(width)
	h := float64(height)

	x1 := float64(r.Min.X) / w
	x2 := float64(r.Max.X) / w
	yTop := 1 - float64(r.Min.Y)/h
	yBottom := 1 - float64(r.Max.Y)/h

	return geometry.Quadrilateral{
		TopLeft:     geometry.Point{X: x1, Y: yTop},
		TopRight:    geometry.Point{X: x2, Y: yTop},
		BottomRight: geometry.Point{X: x2, Y: yBottom},
		BottomLeft:  geometry.Point{X: x1, Y: yBottom},
	}
}

// SupportedLanguages queries Tesseract for the installed language data.
func (t *Tesseract) SupportedLanguages() ([]string, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	return langs, nil
}

// Revisions reports the recognition revisions this Tesseract installation
// offers. Tesseract 5 maps to revision 3, Tesseract 4 (first LSTM release)
// to revision 2, anything older to revision 1.
func (t *Tesseract) Revisions() []int {
	client := gosseract.NewClient()
	defer client.Close()

	major := majorVersion(client.Version())
	switch {
	case major >= 5:
		return []int{1, 2, 3}
	case major == 4:
		return []int{1, 2}
	default:
		return []int{1}
	}
}

// majorVersion extracts the leading integer from a Tesseract version string
// like "5.3.0" or "4.1.1-rc1". Unparseable strings yield 0.
func majorVersion(version string) int {
	head, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}

// saveTempPNG writes img to a temporary PNG file and returns its path.
// The caller is responsible for removing the file.
func saveTempPNG(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "ocr-extract-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	return tmpPath, nil
}
