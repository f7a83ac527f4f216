package svgicon

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, svg string, opts ParseOptions) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(svg), opts)
	require.NoError(t, err)
	return doc
}

func TestParseShapes(t *testing.T) {
	doc := parseString(t, `<?xml version="1.0" encoding="UTF-8"?>
	<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<title>shapes</title>
		<desc>one of each</desc>
		<rect x="1" y="2" width="3" height="4"/>
		<rect width="10" height="10" rx="2"/>
		<circle cx="5" cy="5" r="2"/>
		<ellipse cx="5" cy="5" rx="2" ry="1"/>
		<line x1="0" y1="0" x2="4" y2="4" stroke="black"/>
		<polyline points="0,0 1,1 2,0"/>
		<polygon points="0,0 1,1 2,0"/>
		<path d="M0 0 L1 1"/>
		<rect width="0" height="10"/>
	</svg>`, ParseOptions{})

	assert.Equal(t, []string{"shapes"}, doc.Titles)
	assert.Equal(t, []string{"one of each"}, doc.Descriptions)
	require.Len(t, doc.Paths, 8)
	assert.Equal(t, "M1.000,2.000 L4.000,2.000 L4.000,6.000 L1.000,6.000 Z", doc.Paths[0].Path.String())

	roundRect := doc.Paths[1].Path
	assert.Len(t, roundRect, 10) // move, 4 lines, 4 corners, close
	assert.Equal(t, "M2.000,0.000", roundRect[:1].String())

	assert.Equal(t, "M0.000,0.000 L1.000,1.000 L2.000,0.000", doc.Paths[5].Path.String())
	assert.Equal(t, "M0.000,0.000 L1.000,1.000 L2.000,0.000 Z", doc.Paths[6].Path.String())
}

func TestBounds(t *testing.T) {
	for _, test := range []struct {
		svg       string
		bounds    *Bounds
		transform Matrix2D
	}{
		{`<svg width="10" height="20"></svg>`, &Bounds{W: 10, H: 20}, Identity},
		{`<svg viewBox="0 0 24 24"></svg>`, &Bounds{W: 24, H: 24}, Identity},
		{`<svg width="48" viewBox="0 0 24 12"></svg>`, &Bounds{W: 48, H: 24}, Matrix2D{A: 2, D: 2}},
		{`<svg height="24" viewBox="2 2 24 12"></svg>`, &Bounds{W: 48, H: 24}, Matrix2D{A: 2, D: 2, E: -4, F: -4}},
		{`<svg width="1in" height="72pt"></svg>`, &Bounds{W: 96, H: 96}, Identity},
		{`<svg width="20" height="10" viewBox="0 0 10 10"></svg>`, &Bounds{W: 20, H: 10}, Matrix2D{A: 1, D: 1, E: 5}},
		{`<svg width="20" height="10" viewBox="0 0 10 10" preserveAspectRatio="none"></svg>`, &Bounds{W: 20, H: 10}, Matrix2D{A: 2, D: 1}},
		{`<svg width="100%" height="100%"></svg>`, nil, Identity},
		{`<svg width="10"></svg>`, nil, Identity},
		{`<svg></svg>`, nil, Identity},
	} {
		doc := parseString(t, test.svg, ParseOptions{})
		if test.bounds == nil {
			assert.Nil(t, doc.Bounds, test.svg)
		} else if assert.NotNil(t, doc.Bounds, test.svg) {
			assert.InDelta(t, test.bounds.W, doc.Bounds.W, 1e-9, test.svg)
			assert.InDelta(t, test.bounds.H, doc.Bounds.H, 1e-9, test.svg)
		}
		assert.InDeltaSlice(t,
			[]float64{test.transform.A, test.transform.B, test.transform.C, test.transform.D, test.transform.E, test.transform.F},
			[]float64{doc.Transform.A, doc.Transform.B, doc.Transform.C, doc.Transform.D, doc.Transform.E, doc.Transform.F},
			1e-9, test.svg)
	}
}

func TestParseErrors(t *testing.T) {
	for _, svg := range []string{
		"",
		"   ",
		"<svg",
		"<html></html>",
		`<svg><rect></svg>`,
		`<svg><path d="M 0 0 L 1"/></svg>`,
		`<svg><path d="10 10"/></svg>`,
		`<svg><rect fill="#12"/></svg>`,
		`<svg viewBox="0 0 1"></svg>`,
		`<svg><rect transform="rotate(1,2)"/></svg>`,
	} {
		_, err := Parse(strings.NewReader(svg), ParseOptions{})
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), "%q: %v", svg, err)
	}

	_, err := Parse(strings.NewReader(""), ParseOptions{})
	assert.ErrorIs(t, err, errNotSVG)
}

func TestReadFailureIsNotParseError(t *testing.T) {
	cause := errors.New("disk on fire")
	_, err := Parse(iotest.ErrReader(cause), ParseOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	var pe *ParseError
	assert.False(t, errors.As(err, &pe))
}

func TestErrorModes(t *testing.T) {
	const svg = `<svg width="4" height="4"><foo/><rect width="4" height="4"/></svg>`

	doc := parseString(t, svg, ParseOptions{ErrorMode: IgnoreErrorMode})
	assert.Len(t, doc.Paths, 1)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	doc = parseString(t, svg, ParseOptions{ErrorMode: WarnErrorMode, Logger: logger})
	assert.Len(t, doc.Paths, 1)
	assert.Contains(t, buf.String(), "cannot process svg element")
	assert.Contains(t, buf.String(), "element=foo")

	_, err := Parse(strings.NewReader(svg), ParseOptions{ErrorMode: StrictErrorMode})
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))

	for _, m := range []ErrorMode{IgnoreErrorMode, WarnErrorMode, StrictErrorMode} {
		parsed, err := ParseErrorMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err = ParseErrorMode("loud")
	assert.Error(t, err)
}

func TestStyleCascade(t *testing.T) {
	doc := parseString(t, `<svg width="4" height="4">
		<style><![CDATA[ .a, .b { fill: blue; stroke-width: 3 } ]]></style>
		<g fill-opacity="0.5" stroke="red">
			<rect class="a" fill="red" style="stroke:#00ff00; stroke-width: 2" width="4" height="4"/>
			<rect width="4" height="4" fill-rule="evenodd" stroke="none"/>
		</g>
	</svg>`, ParseOptions{})
	require.Len(t, doc.Paths, 2)

	first := doc.Paths[0].Style
	assert.Equal(t, NewPlainColor(0, 0, 0xff, 0xff), first.FillerColor) // class wins over attribute
	assert.Equal(t, NewPlainColor(0, 0xff, 0, 0xff), first.LinerColor)  // style attribute wins over class
	assert.Equal(t, 2., first.LineWidth)
	assert.Equal(t, 0.5, first.FillOpacity)
	assert.True(t, first.UseNonZeroWinding)

	second := doc.Paths[1].Style
	assert.Equal(t, DefaultStyle.FillerColor, second.FillerColor)
	assert.Nil(t, second.LinerColor)
	assert.False(t, second.UseNonZeroWinding)
	assert.Equal(t, 1., second.LineWidth)
}

func TestTransformsAndUse(t *testing.T) {
	doc := parseString(t, `<svg width="10" height="10" xmlns:xlink="http://www.w3.org/1999/xlink">
		<defs>
			<rect id="square" width="2" height="2"/>
			<g id="pair"><rect width="1" height="1"/><rect x="1" width="1" height="1"/></g>
		</defs>
		<use xlink:href="#square" x="3" y="4"/>
		<use href="#pair" transform="scale(2)"/>
		<rect transform="translate(1) rotate(90)" width="1" height="1"/>
	</svg>`, ParseOptions{})
	require.Len(t, doc.Paths, 4)

	assert.Equal(t, Identity.Translate(3, 4), doc.Paths[0].Style.Transform())
	assert.Equal(t, "M0.000,0.000 L2.000,0.000 L2.000,2.000 L0.000,2.000 Z", doc.Paths[0].Path.String())
	assert.Equal(t, Identity.Scale(2, 2), doc.Paths[1].Style.Transform())
	assert.Equal(t, Identity.Scale(2, 2), doc.Paths[2].Style.Transform())

	m := doc.Paths[3].Style.Transform()
	x, y := m.Transform(1, 0)
	assert.InDelta(t, 1, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}

func TestCyclicUse(t *testing.T) {
	_, err := Parse(strings.NewReader(`<svg width="1" height="1">
		<defs><g id="loop"><use href="#loop"/></g></defs>
		<use href="#loop"/>
	</svg>`), ParseOptions{})
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestGradients(t *testing.T) {
	doc := parseString(t, `<svg width="10" height="10">
		<defs>
			<linearGradient id="lin" x1="0" x2="100%" gradientUnits="userSpaceOnUse" spreadMethod="reflect">
				<stop offset="0" stop-color="#FF0000"/>
				<stop offset="100%" style="stop-color: blue; stop-opacity: 0.5"/>
			</linearGradient>
			<radialGradient id="rad" r="0.25"><stop offset="0.5"/></radialGradient>
		</defs>
		<rect fill="url(#lin)" width="10" height="10"/>
		<rect fill="url(#rad)" stroke="url(#missing)" width="10" height="10"/>
	</svg>`, ParseOptions{ColorSubstitution: map[uint32]uint32{0xFFFF0000: 0xFF00FF00}})
	require.Len(t, doc.Paths, 2)

	lin, ok := doc.Paths[0].Style.FillerColor.(Gradient)
	require.True(t, ok)
	assert.Equal(t, Linear{0, 0, 1, 0}, lin.Direction)
	assert.Equal(t, UserSpaceOnUse, lin.Units)
	assert.Equal(t, ReflectSpread, lin.Spread)
	require.Len(t, lin.Stops, 2)
	assert.Equal(t, PlainColorFromARGB(0xFF00FF00), lin.Stops[0].StopColor)
	assert.Equal(t, NewPlainColor(0, 0, 0xff, 0xff), lin.Stops[1].StopColor)
	assert.Equal(t, 1., lin.Stops[1].Offset)
	assert.Equal(t, 0.5, lin.Stops[1].Opacity)

	rad, ok := doc.Paths[1].Style.FillerColor.(Gradient)
	require.True(t, ok)
	assert.Equal(t, Radial{0.5, 0.5, 0.5, 0.5, 0.25, 0}, rad.Direction)
	assert.Equal(t, ObjectBoundingBox, rad.Units)
	assert.Nil(t, doc.Paths[1].Style.LinerColor)
}

func TestUnits(t *testing.T) {
	for _, test := range []struct {
		in        string
		value     float64
		isPercent bool
	}{
		{"12", 12, false},
		{" 12px ", 12, false},
		{"1in", 96, false},
		{"2.54cm", 96, false},
		{"25.4mm", 96, false},
		{"72pt", 96, false},
		{"6pc", 96, false},
		{"50%", 0.5, true},
		{"-1e1", -10, false},
	} {
		v, isPercent, err := parseLength(test.in)
		assert.NoError(t, err, test.in)
		assert.InDelta(t, test.value, v, 1e-9, test.in)
		assert.Equal(t, test.isPercent, isPercent, test.in)
	}
	for _, in := range []string{"", "px", "12furlongs"} {
		_, _, err := parseLength(in)
		assert.Error(t, err, in)
	}
	_, err := parseBasicFloat("1.5x")
	assert.Error(t, err)
}

func TestPolyWithoutPoints(t *testing.T) {
	// the viewBox numbers must not leak into the shapes
	doc := parseString(t, `<svg viewBox="0 0 10 10"><polygon fill="red"/><polyline stroke="red"/></svg>`, ParseOptions{})
	assert.Empty(t, doc.Paths)

	doc = parseString(t, `<svg width="4" height="4"><polyline points="0 0 1 1"/><polygon/></svg>`, ParseOptions{})
	require.Len(t, doc.Paths, 1)
	assert.Equal(t, "M0.000,0.000 L1.000,1.000", doc.Paths[0].Path.ToSVGPath())
}

func TestCurrentColor(t *testing.T) {
	doc := parseString(t, `<svg width="4" height="4">
		<rect fill="currentColor" width="4" height="4"/>
		<g color="red">
			<rect fill="currentColor" stroke="CURRENTCOLOR" width="4" height="4"/>
			<g fill="currentColor" color="#00ff00"><rect color="blue" width="4" height="4"/></g>
			<rect style="fill: currentColor" width="4" height="4"/>
		</g>
		<linearGradient id="g" color="blue"><stop stop-color="currentColor"/></linearGradient>
	</svg>`, ParseOptions{ColorSubstitution: map[uint32]uint32{0xFFFF0000: 0xFF00FFFF}})
	require.Len(t, doc.Paths, 4)

	assert.Equal(t, NewPlainColor(0, 0, 0, 0xff), doc.Paths[0].Style.FillerColor)
	cyan := PlainColorFromARGB(0xFF00FFFF) // red is substituted
	assert.Equal(t, cyan, doc.Paths[1].Style.FillerColor)
	assert.Equal(t, cyan, doc.Paths[1].Style.LinerColor)
	assert.Equal(t, NewPlainColor(0, 0, 0xff, 0xff), doc.Paths[2].Style.FillerColor) // resolved on the element
	assert.Equal(t, cyan, doc.Paths[3].Style.FillerColor)

	g := doc.grads["g"]
	require.Len(t, g.Stops, 1)
	assert.Equal(t, NewPlainColor(0, 0, 0xff, 0xff), g.Stops[0].StopColor)
}
