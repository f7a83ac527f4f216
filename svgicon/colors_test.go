package svgicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in    string
		color PlainColor
	}{
		{"#fff", NewPlainColor(0xff, 0xff, 0xff, 0xff)},
		{"#FBD9BD", NewPlainColor(0xfb, 0xd9, 0xbd, 0xff)},
		{" red ", NewPlainColor(0xff, 0, 0, 0xff)},
		{"CornflowerBlue", NewPlainColor(100, 149, 237, 0xff)},
		{"rgb(1, 2, 3)", NewPlainColor(1, 2, 3, 0xff)},
		{"rgb(100%, 0%, 50%)", NewPlainColor(0xff, 0, 0x80, 0xff)},
		{"hsl(120, 100%, 50%)", NewPlainColor(0, 0xff, 0, 0xff)},
		{"hsl(0, 0%, 100%)", NewPlainColor(0xff, 0xff, 0xff, 0xff)},
	} {
		c, ok, err := ParseColor(test.in)
		assert.NoError(t, err, test.in)
		assert.True(t, ok, test.in)
		assert.Equal(t, test.color, c, test.in)
	}

	for _, in := range []string{"none", "transparent", ""} {
		_, ok, err := ParseColor(in)
		assert.NoError(t, err)
		assert.False(t, ok)
	}

	for _, in := range []string{"#12", "#gggggg", "rgb(1,2)", "notacolor", "hsl(1,2)"} {
		_, _, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestARGB(t *testing.T) {
	c := PlainColorFromARGB(0x80112233)
	assert.Equal(t, NewPlainColor(0x11, 0x22, 0x33, 0x80), c)
	assert.Equal(t, uint32(0x80112233), c.ARGB())
}

func TestPalette(t *testing.T) {
	red := NewPlainColor(0xff, 0, 0, 0xff)
	halfRed := NewPlainColor(0xff, 0, 0, 0x80)
	sub := map[uint32]uint32{0xFFFF0000: 0xFF00FF00}

	p := palette{substitution: sub}
	assert.Equal(t, PlainColorFromARGB(0xFF00FF00), p.remap(red))
	assert.Equal(t, halfRed, p.remap(halfRed)) // alpha is part of the key

	p = palette{substitution: sub, whiteMode: true}
	assert.Equal(t, white, p.remap(red))
	assert.Equal(t, NewPlainColor(0xff, 0xff, 0xff, 0x80), p.remap(halfRed))

	assert.Equal(t, optionnalColor{}, p.apply(optionnalColor{}))
}

func TestPaletteAppliedWhileParsing(t *testing.T) {
	const svg = `<svg width="2" height="2">
		<rect fill="#FF0000" stroke="#FF0000" width="2" height="2"/>
		<rect width="2" height="2"/>
	</svg>`

	doc := parseString(t, svg, ParseOptions{ColorSubstitution: map[uint32]uint32{
		0xFFFF0000: 0xFF00FF00,
		0xFF000000: 0xFF0000FF,
	}})
	require.Len(t, doc.Paths, 2)
	assert.Equal(t, PlainColorFromARGB(0xFF00FF00), doc.Paths[0].Style.FillerColor)
	assert.Equal(t, PlainColorFromARGB(0xFF00FF00), doc.Paths[0].Style.LinerColor)
	assert.Equal(t, PlainColorFromARGB(0xFF0000FF), doc.Paths[1].Style.FillerColor) // default black

	doc = parseString(t, svg, ParseOptions{
		ColorSubstitution: map[uint32]uint32{0xFFFF0000: 0xFF00FF00},
		WhiteMode:         true,
	})
	for _, p := range doc.Paths {
		assert.Equal(t, white, p.Style.FillerColor)
	}
	assert.Equal(t, white, doc.Paths[0].Style.LinerColor)
}
