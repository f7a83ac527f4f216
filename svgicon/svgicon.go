// Provides parsing and rendering of SVG images.
// SVG files are parsed into an abstract representation,
// which can then be consumed by painting drivers.
// See for example package svgraster.
//
// While parsing, colors may be remapped: see ParseOptions.
package svgicon

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/net/html/charset"
)

// PathStyle holds the state of the SVG style
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join                    JoinOptions
	Dash                    DashOptions
	FillerColor, LinerColor Pattern // either PlainColor or Gradient, nil to disable

	transform Matrix2D // current transform

	// value of the color property, used by currentColor paints
	currentColor               Pattern
	fillCurrent, strokeCurrent bool
}

// Transform returns the transformation applied to the path
// coordinates, relative to the document user space.
func (s PathStyle) Transform() Matrix2D { return s.transform }

// SvgPath binds a style to a path
type SvgPath struct {
	Path  Path
	Style PathStyle
}

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// Document holds data from parsed SVGs.
// See the `Draw` methods to use it.
type Document struct {
	// Bounds is the declared size of the document, in px.
	// It is nil when the root element declares
	// neither a width/height nor a viewBox.
	Bounds *Bounds

	ViewBox      Bounds
	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here
	Paths        []SvgPath

	// Transform maps the viewBox user space to the Bounds space.
	Transform Matrix2D

	grads   map[string]*Gradient
	defs    map[string][]definition
	classes map[string]styleAttribute
}

// ParseOptions tunes how a document is read.
type ParseOptions struct {
	// ColorSubstitution maps 0xAARRGGBB colors found in the document
	// to their replacement.
	ColorSubstitution map[uint32]uint32

	// WhiteMode turns every fill, stroke and gradient stop
	// into white, keeping its alpha. It takes precedence over
	// ColorSubstitution.
	WhiteMode bool

	// ErrorMode determines if the parser ignores, errors out, or logs a warning
	// when it does not handle an element found in the document.
	ErrorMode ErrorMode

	// Logger is used in WarnErrorMode. Defaults to slog.Default().
	Logger *slog.Logger
}

// readTracker remembers the first error returned by the
// underlying reader, so that I/O failures are not reported as syntax errors.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// Parse reads the document from the given io.Reader, until EOF.
// This only supports a sub-set of SVG, but
// is enough to draw many icons.
// Malformed input is reported as a *ParseError. A failure of `stream`
// itself is returned wrapped, and is never a *ParseError.
func Parse(stream io.Reader, opts ParseOptions) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	icon := &Document{
		defs:      make(map[string][]definition),
		grads:     make(map[string]*Gradient),
		classes:   make(map[string]styleAttribute),
		Transform: Identity,
	}
	cursor := &iconCursor{
		icon:      icon,
		palette:   palette{substitution: opts.ColorSubstitution, whiteMode: opts.WhiteMode},
		errorMode: opts.ErrorMode,
		logger:    logger,
	}
	root := DefaultStyle
	root.FillerColor = cursor.palette.remap(DefaultStyle.FillerColor.(PlainColor))
	root.currentColor = root.FillerColor
	cursor.styleStack = []PathStyle{root}

	in := &readTracker{r: stream}
	decoder := xml.NewDecoder(in)
	decoder.CharsetReader = charset.NewReaderLabel

	fail := func(err error) (*Document, error) {
		if in.err != nil {
			return nil, fmt.Errorf("svgicon: reading input: %w", in.err)
		}
		return nil, &ParseError{Offset: decoder.InputOffset(), Err: err}
	}

	seenTag := false
	for {
		t, err := decoder.Token()
		if err == io.EOF {
			if !seenTag {
				return fail(errNotSVG)
			}
			break
		}
		if err != nil {
			return fail(err)
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if !seenTag && se.Name.Local != "svg" {
				return fail(errNotSVG)
			}
			seenTag = true
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			if err = cursor.pushStyle(se.Attr); err != nil {
				return fail(err)
			}
			if err = cursor.readStartElement(se); err != nil {
				return fail(err)
			}
		case xml.EndElement:
			if err = cursor.readEndElement(se); err != nil {
				return fail(err)
			}
		case xml.CharData:
			cursor.readCharData(se)
		}
	}
	return icon, nil
}
