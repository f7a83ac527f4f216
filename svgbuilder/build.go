package svgbuilder

import (
	"errors"

	"github.com/benoitkugler/svgbitmap/svgicon"
	"github.com/benoitkugler/svgbitmap/svgraster"
	"github.com/benoitkugler/svgbitmap/svgsource"
)

// DisplayMetrics describes the target display.
type DisplayMetrics struct {
	Density    float64 // scale from document px to device pixels
	DensityDpi int
}

// BuildDocument consumes `cfg` and parses its source.
// The source is closed before returning, whatever the outcome.
//
// Malformed documents return a *svgicon.ParseError, and
// failures of the source a *svgsource.IOError.
func BuildDocument(cfg *Config) (doc *svgicon.Document, err error) {
	stream, err := cfg.take()
	if err != nil {
		return nil, err
	}
	origin := cfg.origin.String()
	defer func() {
		closeErr := stream.Close()
		if err == nil && closeErr != nil {
			doc, err = nil, &svgsource.IOError{Origin: origin, Err: closeErr}
		}
	}()

	cfg.logger.Debug("parsing svg", "origin", origin, "substitutions", len(cfg.substitution), "white", cfg.whiteMode)
	doc, err = svgicon.Parse(stream, cfg.parseOptions())
	if err != nil {
		var perr *svgicon.ParseError
		if errors.As(err, &perr) {
			return nil, perr
		}
		return nil, &svgsource.IOError{Origin: origin, Err: err}
	}
	return doc, nil
}

// BuildBitmap consumes `cfg`, parses its source and
// rasterizes the document at the density of `metrics`.
func BuildBitmap(cfg *Config, metrics DisplayMetrics) (*svgraster.PixelBuffer, error) {
	doc, err := BuildDocument(cfg)
	if err != nil {
		return nil, err
	}
	buf, err := svgraster.Rasterize(doc, metrics.DensityDpi, metrics.Density)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("svg rasterized", "origin", cfg.origin.String(),
		"width", buf.Bounds().Dx(), "height", buf.Bounds().Dy(), "density", metrics.Density)
	return buf, nil
}
