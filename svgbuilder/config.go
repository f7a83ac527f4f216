// Turns an SVG source into a parsed document or a bitmap
// sized for a display density.
//
// A Config is created from an svgsource.Origin and a list of options,
// then consumed by exactly one call to BuildDocument or BuildBitmap.
package svgbuilder

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"sync/atomic"

	"github.com/benoitkugler/svgbitmap/svgicon"
	"github.com/benoitkugler/svgbitmap/svgsource"
)

// ErrConsumed is returned when building twice from the same Config.
var ErrConsumed = errors.New("svgbuilder: config already consumed")

// Option customizes a Config.
type Option func(*Config)

// WithColorSubstitution replaces the 0xAARRGGBB color `search`
// by `replace` wherever it is found in the document.
// A later substitution for the same `search` wins.
func WithColorSubstitution(search, replace uint32) Option {
	return func(c *Config) {
		if c.substitution == nil {
			c.substitution = make(map[uint32]uint32)
		}
		c.substitution[search] = replace
	}
}

// WithWhiteMode paints every color white, keeping its alpha.
// It takes precedence over color substitutions.
func WithWhiteMode(enabled bool) Option {
	return func(c *Config) { c.whiteMode = enabled }
}

// WithErrorMode selects how unsupported elements are handled.
func WithErrorMode(mode svgicon.ErrorMode) Option {
	return func(c *Config) { c.errorMode = mode }
}

// WithLogger sets the logger used for build steps and parser warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// Config holds an opened source and the color settings
// used to parse it. It is immutable once created.
type Config struct {
	origin svgsource.Origin
	stream io.ReadCloser

	substitution map[uint32]uint32
	whiteMode    bool
	errorMode    svgicon.ErrorMode
	logger       *slog.Logger

	consumed atomic.Bool
}

// NewConfig opens `origin` and applies `opts` in order.
// An origin which can't be opened returns a *svgsource.IOError.
func NewConfig(origin svgsource.Origin, opts ...Option) (*Config, error) {
	stream, err := svgsource.Resolve(origin)
	if err != nil {
		return nil, err
	}
	cfg := &Config{origin: origin, stream: stream}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg, nil
}

// Origin returns the origin the config was created from.
func (c *Config) Origin() svgsource.Origin { return c.origin }

// ColorSubstitution returns a copy of the substitution table.
func (c *Config) ColorSubstitution() map[uint32]uint32 {
	out := make(map[uint32]uint32, len(c.substitution))
	maps.Copy(out, c.substitution)
	return out
}

// WhiteMode returns true if white mode is enabled.
func (c *Config) WhiteMode() bool { return c.whiteMode }

// ErrorMode returns the policy for unsupported elements.
func (c *Config) ErrorMode() svgicon.ErrorMode { return c.errorMode }

// Close releases the source of a config which won't be built.
// It is a no-op once the config is consumed.
func (c *Config) Close() error {
	if c.consumed.Swap(true) {
		return nil
	}
	return c.stream.Close()
}

// take marks the config as consumed and returns its stream
func (c *Config) take() (io.ReadCloser, error) {
	if c.consumed.Swap(true) {
		return nil, ErrConsumed
	}
	return c.stream, nil
}

func (c *Config) parseOptions() svgicon.ParseOptions {
	return svgicon.ParseOptions{
		ColorSubstitution: c.ColorSubstitution(),
		WhiteMode:         c.whiteMode,
		ErrorMode:         c.errorMode,
		Logger:            c.logger,
	}
}
