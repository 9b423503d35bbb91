package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ocr-extract/internal/extract"
	"github.com/ironsheep/ocr-extract/internal/geometry"
	"github.com/ironsheep/ocr-extract/internal/imaging"
)

// writeWhitePNG writes a white PNG of the given size and returns its path.
func writeWhitePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// encodedResult builds a serialized Result with the given observations.
func encodedResult(t *testing.T, info extract.ImageInfo, obs ...extract.Observation) []byte {
	t.Helper()
	res := &extract.Result{Info: info, Observations: obs}
	data, err := res.Encode()
	require.NoError(t, err)
	return data
}

func loadPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0 && b == 0
}

func TestRenderStrokesQuadCorners(t *testing.T) {
	dir := t.TempDir()
	src := writeWhitePNG(t, dir, "page.png", 1000, 500)

	quad := geometry.Quadrilateral{
		TopLeft:     geometry.Point{X: 0.1, Y: 0.2},
		TopRight:    geometry.Point{X: 0.8, Y: 0.2},
		BottomRight: geometry.Point{X: 0.8, Y: 0.3},
		BottomLeft:  geometry.Point{X: 0.1, Y: 0.3},
	}
	data := encodedResult(t, extract.ImageInfo{Width: 1000, Height: 500},
		extract.Observation{Text: "line", Confidence: 0.9, Quad: quad})

	r, err := NewRenderer(imaging.NewImageCache(), "")
	require.NoError(t, err)

	outPath, err := r.Render(src, data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "page_boxes.png"), outPath)

	out := loadPNG(t, outPath)

	// The vertical inverse transform puts the "top" edge at pixel row 400
	// and the "bottom" edge at row 350.
	corners := [][2]int{{100, 400}, {800, 400}, {800, 350}, {100, 350}}
	for _, c := range corners {
		assert.True(t, isRed(out.At(c[0], c[1])), "corner (%d,%d) not stroked", c[0], c[1])
	}

	// Edge midpoints are stroked; the interior is untouched.
	assert.True(t, isRed(out.At(450, 400)))
	assert.True(t, isRed(out.At(450, 350)))
	assert.True(t, isRed(out.At(100, 375)))
	assert.True(t, isRed(out.At(800, 375)))
	assert.False(t, isRed(out.At(450, 375)))

	// The source file is untouched.
	assert.True(t, !isRed(loadPNG(t, src).At(100, 400)))
}

func TestRenderOutputNameDropsSourceExtension(t *testing.T) {
	dir := t.TempDir()

	// JPEG source still produces a PNG overlay.
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	src := filepath.Join(dir, "scan.jpg")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img)) // decoder sniffs content, not name
	require.NoError(t, f.Close())

	r, err := NewRenderer(imaging.NewImageCache(), "")
	require.NoError(t, err)

	outPath, err := r.Render(src, encodedResult(t, extract.ImageInfo{}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scan_boxes.png"), outPath)
}

func TestRenderCustomStrokeColor(t *testing.T) {
	dir := t.TempDir()
	src := writeWhitePNG(t, dir, "page.png", 100, 100)

	quad := geometry.Quadrilateral{
		TopLeft:     geometry.Point{X: 0.2, Y: 0.2},
		TopRight:    geometry.Point{X: 0.8, Y: 0.2},
		BottomRight: geometry.Point{X: 0.8, Y: 0.8},
		BottomLeft:  geometry.Point{X: 0.2, Y: 0.8},
	}
	data := encodedResult(t, extract.ImageInfo{},
		extract.Observation{Text: "x", Quad: quad})

	r, err := NewRenderer(imaging.NewImageCache(), "#00FF00")
	require.NoError(t, err)

	outPath, err := r.Render(src, data)
	require.NoError(t, err)

	out := loadPNG(t, outPath)
	_, g, _, _ := out.At(20, 80).RGBA() // topLeft denormalized: (20, 80)
	assert.Equal(t, uint32(0xffff), g)
}

func TestNewRendererRejectsBadColor(t *testing.T) {
	_, err := NewRenderer(imaging.NewImageCache(), "bright red")
	assert.Error(t, err)
}

func TestRenderMalformedResult(t *testing.T) {
	dir := t.TempDir()
	src := writeWhitePNG(t, dir, "page.png", 10, 10)

	r, err := NewRenderer(imaging.NewImageCache(), "")
	require.NoError(t, err)

	_, err = r.Render(src, []byte("{broken"))
	assert.ErrorIs(t, err, extract.ErrResultParse)
}

func TestRenderMissingSource(t *testing.T) {
	r, err := NewRenderer(imaging.NewImageCache(), "")
	require.NoError(t, err)

	_, err = r.Render(filepath.Join(t.TempDir(), "gone.png"), encodedResult(t, extract.ImageInfo{}))
	assert.ErrorIs(t, err, imaging.ErrImageLoad)
}

func TestRenderClipsOvershootingQuads(t *testing.T) {
	dir := t.TempDir()
	src := writeWhitePNG(t, dir, "page.png", 50, 50)

	// Normalized 1.0 denormalizes to pixel 50, one past the last row; the
	// stroke must clip rather than panic.
	quad := geometry.Quadrilateral{
		TopLeft:     geometry.Point{X: 0, Y: 0},
		TopRight:    geometry.Point{X: 1, Y: 0},
		BottomRight: geometry.Point{X: 1, Y: 1},
		BottomLeft:  geometry.Point{X: 0, Y: 1},
	}
	data := encodedResult(t, extract.ImageInfo{},
		extract.Observation{Text: "full", Quad: quad})

	r, err := NewRenderer(imaging.NewImageCache(), "")
	require.NoError(t, err)

	_, err = r.Render(src, data)
	require.NoError(t, err)
}
