package svgraster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/benoitkugler/svgbitmap/svgicon"
	"github.com/srwiley/rasterx"
)

var (
	// ErrMissingBounds is returned when rasterizing a document
	// without declared size.
	ErrMissingBounds = errors.New("svgraster: document has no bounds")

	// ErrInvalidDensity is returned for densities which are not
	// finite positive numbers.
	ErrInvalidDensity = errors.New("svgraster: density must be a finite positive number")

	// ErrTooLarge is returned when the output would exceed maxDimension
	// pixels on one side, or maxPixels in total.
	ErrTooLarge = errors.New("svgraster: output image too large")
)

const (
	maxDimension = 1 << 24
	maxPixels    = 1 << 28
)

// PixelBuffer is a rasterized document, tagged with the
// display density it was produced for.
type PixelBuffer struct {
	*image.RGBA

	Density    float64 // scale from document px to output pixels
	DensityDpi int     // informational, not used for scaling
}

// toPixels rounds half away from zero, with a minimum of 1
func toPixels(v float64) int {
	v = math.Round(v)
	if !(v >= 1) { // also catches NaN
		return 1
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// PixelSize returns the size of the image produced
// for a document of declared size `bounds` at `density`.
// Each dimension is at least 1, and saturates at math.MaxInt32.
func PixelSize(bounds svgicon.Bounds, density float64) (width, height int) {
	return toPixels(bounds.W * density), toPixels(bounds.H * density)
}

func validDensity(density float64) bool {
	return density > 0 && !math.IsInf(density, 1)
}

// Rasterize draws `doc` into a new transparent image, whose size is the document
// bounds scaled by `density`. The geometry is scaled by the same factor, so
// that the whole document fills the image.
func Rasterize(doc *svgicon.Document, densityDpi int, density float64) (*PixelBuffer, error) {
	if doc == nil || doc.Bounds == nil {
		return nil, ErrMissingBounds
	}
	if !validDensity(density) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDensity, density)
	}
	w, h := PixelSize(*doc.Bounds, density)
	if w > maxDimension || h > maxDimension || int64(w)*int64(h) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	renderer := NewRenderer(w, h, scanner)
	doc.DrawTransformed(renderer, 1, svgicon.Identity.Scale(density, density))

	return &PixelBuffer{RGBA: img, Density: density, DensityDpi: densityDpi}, nil
}
