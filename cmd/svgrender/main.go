// Command svgrender rasterizes an SVG document into a PNG image,
// at a given display density.
//
//	svgrender -in icon.svg -out icon.png -density 2 -replace '#000=white'
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgbitmap/svgbuilder"
	"github.com/benoitkugler/svgbitmap/svgicon"
	"github.com/benoitkugler/svgbitmap/svgraster"
	"github.com/benoitkugler/svgbitmap/svgsource"
)

const defaultDpi = 160 // density 1

// job is a fully resolved rendering request
type job struct {
	input, assets, output string

	density   float64
	dpi       int
	white     bool
	subs      []substitution
	errorMode svgicon.ErrorMode
}

func main() {
	input := flag.String("in", "-", "SVG file to render, - for stdin")
	assets := flag.String("assets", "", "directory used as asset container: -in is then a path inside it")
	output := flag.String("out", "out.png", "PNG output path, - for stdout")
	configPath := flag.String("config", "", "settings file (.toml, .yaml or .yml)")
	density := flag.Float64("density", 1, "scale from document px to output pixels")
	dpi := flag.Int("dpi", defaultDpi, "density in dots per inch, stored with the bitmap")
	white := flag.Bool("white", false, "paint every color white, keeping alpha")
	strict := flag.Bool("strict", false, "fail on unsupported SVG elements")
	verbose := flag.Bool("v", false, "log debug information")
	var replaces replaceFlags
	flag.Var(&replaces, "replace", "color substitution search=replace, repeatable")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var file settings
	if *configPath != "" {
		var err error
		file, err = loadSettings(*configPath)
		if err != nil {
			log.Fatalf("invalid settings: %v", err)
		}
	}
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	cli := job{
		input: *input, assets: *assets, output: *output,
		density: *density, dpi: *dpi, white: *white, subs: replaces,
	}
	if *strict {
		cli.errorMode = svgicon.StrictErrorMode
	}
	j, err := mergeSettings(file, cli, setFlags)
	if err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	if err := run(j, os.Stdin, os.Stdout, logger); err != nil {
		log.Fatal(describe(err))
	}
}

// mergeSettings starts from the settings file and applies
// the flags explicitly set on the command line.
func mergeSettings(file settings, cli job, setFlags map[string]bool) (job, error) {
	j := cli
	if file.Density != nil && !setFlags["density"] {
		j.density = *file.Density
	}
	if file.DensityDpi != nil && !setFlags["dpi"] {
		j.dpi = *file.DensityDpi
	}
	if file.WhiteMode != nil && !setFlags["white"] {
		j.white = *file.WhiteMode
	}
	if !setFlags["strict"] {
		mode, err := svgicon.ParseErrorMode(file.ErrorMode)
		if err != nil {
			return j, err
		}
		j.errorMode = mode
	}
	subs, err := file.substitutionList()
	if err != nil {
		return j, err
	}
	j.subs = append(subs, cli.subs...) // flags are applied last and win
	return j, nil
}

func (j job) origin(stdin io.Reader) svgsource.Origin {
	switch {
	case j.assets != "":
		return svgsource.FromAsset(os.DirFS(j.assets), j.input)
	case j.input == "-":
		return svgsource.FromReader(stdin)
	default:
		return svgsource.FromFile(j.input)
	}
}

// run renders the job and writes the PNG output
func run(j job, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	opts := []svgbuilder.Option{
		svgbuilder.WithWhiteMode(j.white),
		svgbuilder.WithErrorMode(j.errorMode),
		svgbuilder.WithLogger(logger),
	}
	for _, s := range j.subs {
		opts = append(opts, svgbuilder.WithColorSubstitution(s.search, s.replace))
	}
	cfg, err := svgbuilder.NewConfig(j.origin(stdin), opts...)
	if err != nil {
		return err
	}
	buf, err := svgbuilder.BuildBitmap(cfg, svgbuilder.DisplayMetrics{Density: j.density, DensityDpi: j.dpi})
	if err != nil {
		return err
	}

	if j.output == "-" {
		return png.Encode(stdout, buf.RGBA)
	}
	f, err := os.Create(j.output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err = png.Encode(f, buf.RGBA); err != nil {
		f.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Info("bitmap written", "path", j.output, "width", buf.Bounds().Dx(), "height", buf.Bounds().Dy())
	return nil
}

// describe chooses the error message from the kind of `err`
func describe(err error) string {
	var (
		ioErr    *svgsource.IOError
		parseErr *svgicon.ParseError
	)
	switch {
	case errors.As(err, &ioErr):
		return fmt.Sprintf("cannot read input: %v", err)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("invalid SVG document: %v", err)
	case errors.Is(err, svgraster.ErrMissingBounds):
		return "the document declares no size: set width and height, or a viewBox"
	case errors.Is(err, svgraster.ErrInvalidDensity):
		return fmt.Sprintf("invalid density: %v", err)
	default:
		return fmt.Sprintf("rendering failed: %v", err)
	}
}
