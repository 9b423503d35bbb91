// Package render paints detected text quadrilaterals onto a copy of the
// source image for visual debugging.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ocr-extract/internal/extract"
	"github.com/ironsheep/ocr-extract/internal/geometry"
	"github.com/ironsheep/ocr-extract/internal/imaging"
)

// ErrImageEncode indicates the composited debug image could not be encoded
// or written.
var ErrImageEncode = errors.New("image encode failed")

// DefaultStrokeColor is the hex color used for quadrilateral outlines when
// no override is configured.
const DefaultStrokeColor = "#FF0000"

// Renderer draws observation quadrilaterals onto source images.
type Renderer struct {
	cache  *imaging.ImageCache
	stroke color.NRGBA
}

// NewRenderer creates a Renderer sharing the given decode cache.
//
// strokeHex is the outline color as a hex string ("#RRGGBB"); an empty
// string selects DefaultStrokeColor. An unparseable color is an error.
func NewRenderer(cache *imaging.ImageCache, strokeHex string) (*Renderer, error) {
	if strokeHex == "" {
		strokeHex = DefaultStrokeColor
	}
	c, err := colorful.Hex(strokeHex)
	if err != nil {
		return nil, fmt.Errorf("invalid stroke color %q: %w", strokeHex, err)
	}
	r, g, b := c.RGB255()

	return &Renderer{
		cache:  cache,
		stroke: color.NRGBA{R: r, G: g, B: b, A: 255},
	}, nil
}

// Render re-parses a serialized Result and strokes a one-pixel-wide unfilled
// quadrilateral for each of its observations onto a copy of the image at
// imagePath. Normalized coordinates are mapped back onto pixel space with
// the inverse of the extraction pipeline's vertical transform.
//
// The composite is written as PNG to <imagePathWithoutExtension>_boxes.png
// beside the source, regardless of the source format. Render returns the
// written path.
func (r *Renderer) Render(imagePath string, resultJSON []byte) (string, error) {
	result, err := extract.Parse(resultJSON)
	if err != nil {
		return "", err
	}

	img, err := r.cache.Load(imagePath)
	if err != nil {
		return "", err
	}

	canvas, err := imaging.ToPixelBuffer(img)
	if err != nil {
		return "", fmt.Errorf("%s: %w", imagePath, err)
	}

	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()
	for _, obs := range result.Observations {
		r.strokeQuad(canvas, obs.Quad, width, height)
	}

	outPath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "_boxes.png"
	if err := imgio.Save(outPath, canvas, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrImageEncode, outPath, err)
	}

	return outPath, nil
}

// strokeQuad draws the four edges of a normalized quadrilateral in pixel
// space, corner to corner in order.
func (r *Renderer) strokeQuad(canvas *image.NRGBA, q geometry.Quadrilateral, width, height int) {
	corners := []geometry.Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}

	type pixel struct{ x, y int }
	px := make([]pixel, len(corners))
	for i, c := range corners {
		fx, fy := geometry.Denormalize(c, width, height)
		px[i] = pixel{x: int(math.Round(fx)), y: int(math.Round(fy))}
	}

	for i := range px {
		next := px[(i+1)%len(px)]
		drawLine(canvas, px[i].x, px[i].y, next.x, next.y, r.stroke)
	}
}

// drawLine draws a one-pixel line from (x1,y1) to (x2,y2) using Bresenham's
// algorithm, skipping pixels outside the canvas bounds.
func drawLine(canvas *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	bounds := canvas.Bounds()
	for {
		if image.Pt(x1, y1).In(bounds) {
			canvas.SetNRGBA(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
