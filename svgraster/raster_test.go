package svgraster

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/benoitkugler/svgbitmap/svgicon"
	"github.com/srwiley/rasterx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, svg string) *svgicon.Document {
	t.Helper()
	doc, err := svgicon.Parse(strings.NewReader(svg), svgicon.ParseOptions{})
	require.NoError(t, err)
	return doc
}

func TestPixelSize(t *testing.T) {
	for _, test := range []struct {
		w, h, density float64
		pw, ph        int
	}{
		{10, 10, 1, 10, 10},
		{10, 10, 2, 20, 20},
		{10.4, 10.5, 1, 10, 11},
		{24, 24, 1.5, 36, 36},
		{0.001, 0.001, 1, 1, 1},
		{0, 3, 1, 1, 3},
		{2e7, 1, 1, 20000000, 1},
	} {
		pw, ph := PixelSize(svgicon.Bounds{W: test.w, H: test.h}, test.density)
		assert.Equal(t, test.pw, pw, test)
		assert.Equal(t, test.ph, ph, test)
	}
}

func TestRasterizeErrors(t *testing.T) {
	_, err := Rasterize(parse(t, `<svg><rect width="1" height="1"/></svg>`), 160, 1)
	assert.ErrorIs(t, err, ErrMissingBounds)

	doc := parse(t, `<svg width="4" height="4"/>`)
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = Rasterize(doc, 160, d)
		assert.ErrorIs(t, err, ErrInvalidDensity, d)
	}

	_, err = Rasterize(nil, 160, 1)
	assert.ErrorIs(t, err, ErrMissingBounds)

	_, err = Rasterize(parse(t, `<svg width="100000" height="100000"/>`), 160, 1)
	assert.ErrorIs(t, err, ErrTooLarge)

	// a single side too long is rejected, not truncated
	_, err = Rasterize(&svgicon.Document{Bounds: &svgicon.Bounds{W: 2e7, H: 1}, Transform: svgicon.Identity}, 160, 1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRasterizeFill(t *testing.T) {
	doc := parse(t, `<svg width="10" height="10"><rect fill="#FF0000" width="10" height="10"/></svg>`)
	buf, err := Rasterize(doc, 320, 2)
	require.NoError(t, err)

	assert.Equal(t, 20, buf.Bounds().Dx())
	assert.Equal(t, 20, buf.Bounds().Dy())
	assert.Equal(t, 320, buf.DensityDpi)
	assert.Equal(t, 2., buf.Density)
	red := color.RGBA{0xff, 0, 0, 0xff}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			require.Equal(t, red, buf.RGBAAt(x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestRasterizeViewBox(t *testing.T) {
	// the viewBox is scaled to the declared size
	doc := parse(t, `<svg width="8" height="8" viewBox="0 0 2 2"><rect fill="blue" width="1" height="1"/></svg>`)
	buf, err := Rasterize(doc, 160, 1)
	require.NoError(t, err)

	assert.Equal(t, uint8(0xff), buf.RGBAAt(1, 1).A)
	assert.Equal(t, uint8(0xff), buf.RGBAAt(3, 3).B)
	assert.Equal(t, uint8(0), buf.RGBAAt(5, 5).A)
}

func TestRasterizeOpacity(t *testing.T) {
	doc := parse(t, `<svg width="2" height="2"><rect fill="red" fill-opacity="0.5" width="2" height="2"/></svg>`)
	buf, err := Rasterize(doc, 160, 1)
	require.NoError(t, err)

	px := buf.RGBAAt(1, 1) // premultiplied
	assert.InDelta(t, 128, int(px.A), 1)
	assert.InDelta(t, 128, int(px.R), 1)
	assert.Equal(t, uint8(0), px.G)
}

func TestRasterizeStroke(t *testing.T) {
	doc := parse(t, `<svg width="10" height="10"><line x1="0" y1="5" x2="10" y2="5" stroke="black" stroke-width="2"/></svg>`)
	buf, err := Rasterize(doc, 160, 1)
	require.NoError(t, err)

	assert.Equal(t, uint8(0xff), buf.RGBAAt(5, 4).A)
	assert.Equal(t, uint8(0xff), buf.RGBAAt(5, 5).A)
	assert.Equal(t, uint8(0), buf.RGBAAt(5, 1).A)
	assert.Equal(t, uint8(0), buf.RGBAAt(5, 8).A)
}

func TestRasterizeGradient(t *testing.T) {
	doc := parse(t, `<svg width="20" height="4">
		<linearGradient id="g"><stop offset="0" stop-color="red"/><stop offset="1" stop-color="blue"/></linearGradient>
		<rect fill="url(#g)" width="20" height="4"/>
	</svg>`)
	buf, err := Rasterize(doc, 160, 1)
	require.NoError(t, err)

	left, right := buf.RGBAAt(0, 2), buf.RGBAAt(19, 2)
	assert.Greater(t, left.R, left.B)
	assert.Greater(t, right.B, right.R)
}

const complexSVG = `<svg width="16" height="16" viewBox="0 0 32 32">
	<radialGradient id="r" cx="0.5" cy="0.5" r="0.5"><stop offset="0" stop-color="#fb0"/><stop offset="1" stop-color="#04f" stop-opacity="0.5"/></radialGradient>
	<circle cx="16" cy="16" r="12" fill="url(#r)" stroke="#333" stroke-width="1.5" stroke-dasharray="3 1"/>
	<path d="M4 28 A12 8 30 0 1 28 28 Q16 20 4 28z" fill="green" stroke-linejoin="round" stroke="black"/>
</svg>`

func TestRasterizeDeterministic(t *testing.T) {
	doc := parse(t, complexSVG)
	b1, err := Rasterize(doc, 240, 1.5)
	require.NoError(t, err)
	b2, err := Rasterize(doc, 240, 1.5)
	require.NoError(t, err)
	assert.Equal(t, b1.Pix, b2.Pix)

	b3, err := Rasterize(parse(t, complexSVG), 240, 1.5)
	require.NoError(t, err)
	assert.Equal(t, b1.Pix, b3.Pix)
}

func TestApplyOpacity(t *testing.T) {
	c := color.NRGBA{1, 2, 3, 200}
	assert.Equal(t, color.NRGBA{1, 2, 3, 100}, applyOpacity(c, 0.5))
	assert.Equal(t, c, applyOpacity(c, 2))
	assert.Equal(t, uint8(0), applyOpacity(c, -1).A)
}

func TestSetupDrawers(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	r := NewRenderer(1, 1, rasterx.NewScannerGV(1, 1, img, img.Bounds()))
	f, s := r.SetupDrawers(false, false)
	assert.Nil(t, f)
	assert.Nil(t, s)
	f, s = r.SetupDrawers(true, true)
	assert.NotNil(t, f)
	assert.NotNil(t, s)
}
