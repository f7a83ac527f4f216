package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgbitmap/svgicon"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// settings is the content of a configuration file.
// Pointers distinguish absent fields from zero values.
type settings struct {
	Density       *float64          `toml:"density" yaml:"density"`
	DensityDpi    *int              `toml:"density_dpi" yaml:"density_dpi"`
	WhiteMode     *bool             `toml:"white_mode" yaml:"white_mode"`
	Substitutions map[string]string `toml:"substitutions" yaml:"substitutions"`
	ErrorMode     string            `toml:"error_mode" yaml:"error_mode"`
}

// loadSettings reads a TOML or YAML file, chosen by extension.
// Unknown fields are rejected.
func loadSettings(path string) (settings, error) {
	var s settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
		if err != nil && len(bytes.TrimSpace(data)) == 0 {
			err = nil // empty document
		}
	default:
		return s, fmt.Errorf("unsupported settings format %q", ext)
	}
	if err != nil {
		return s, fmt.Errorf("decoding settings %s: %w", path, err)
	}
	return s, nil
}

// substitution is one search/replace pair, in 0xAARRGGBB form
type substitution struct {
	search, replace uint32
}

// substitutionList returns the substitutions of the file,
// sorted by key so that duplicated colors resolve deterministically.
func (s settings) substitutionList() ([]substitution, error) {
	keys := make([]string, 0, len(s.Substitutions))
	for k := range s.Substitutions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]substitution, 0, len(keys))
	for _, k := range keys {
		sub, err := parseSubstitution(k, s.Substitutions[k])
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func parseSubstitution(search, replace string) (substitution, error) {
	s, err := parseARGB(search)
	if err != nil {
		return substitution{}, err
	}
	r, err := parseARGB(replace)
	if err != nil {
		return substitution{}, err
	}
	return substitution{search: s, replace: r}, nil
}

// parseARGB accepts 0xAARRGGBB, or any color understood by SVG documents.
func parseARGB(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		if len(hex) != 8 {
			return 0, fmt.Errorf("invalid color %q: expected 0xAARRGGBB", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return uint32(v), nil
	}
	c, ok, err := svgicon.ParseColor(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if !ok {
		return 0, fmt.Errorf("invalid color %q: not a plain color", s)
	}
	return c.ARGB(), nil
}

// replaceFlags collects repeated -replace search=replace flags
type replaceFlags []substitution

func (r *replaceFlags) String() string {
	chunks := make([]string, len(*r))
	for i, s := range *r {
		chunks[i] = fmt.Sprintf("0x%08X=0x%08X", s.search, s.replace)
	}
	return strings.Join(chunks, ",")
}

func (r *replaceFlags) Set(v string) error {
	search, replace, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected search=replace, got %q", v)
	}
	sub, err := parseSubstitution(search, replace)
	if err != nil {
		return err
	}
	*r = append(*r, sub)
	return nil
}
