package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/chazu/lindenmayer/pkg/lsystem"
	"github.com/chazu/lindenmayer/pkg/plot"
	"github.com/chazu/lindenmayer/pkg/turtle"
)

// FormatJSON prints the evaluation result to stdout instead of writing
// drawings.
const FormatJSON = "json"

// Config holds lsys command configuration. Environment variables provide
// defaults that flags override.
type Config struct {
	OutputDir     string  `env:"LSYS_OUTPUT_DIR" envDefault:"."`
	Format        string  `env:"LSYS_FORMAT" envDefault:"png"`
	Resolution    int     `env:"LSYS_RESOLUTION" envDefault:"1024"`
	Scale         float64 `env:"LSYS_SCALE" envDefault:"0"`
	MaxSymbols    int     `env:"LSYS_MAX_SYMBOLS" envDefault:"4000000"`
	MaxIterations int     `env:"LSYS_MAX_ITERATIONS" envDefault:"16"`
	Workers       int     `env:"LSYS_WORKERS" envDefault:"0"`

	// Script is the path of an L-system script. When empty the system is
	// described inline by the flags below.
	Script string

	Name        string
	Rules       string
	Axiom       string
	AngleText   string
	Iterations  int
	Length      float64
	DrawSymbols string
}

// ParseConfig parses environment and flags into Config. A single
// positional argument is taken as the script path.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for exported drawings")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: png, svg, dxf or json")
	fs.IntVar(&cfg.Resolution, "resolution", cfg.Resolution, "Image width and height in pixels")
	fs.Float64Var(&cfg.Scale, "scale", cfg.Scale, "Pixels per segment length with the origin centred; 0 fits the drawing")
	fs.IntVar(&cfg.MaxSymbols, "max-symbols", cfg.MaxSymbols, "Derived string length cap; 0 disables it")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "Iteration cap per system; 0 disables it")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent generations; 0 uses one per CPU")

	fs.StringVar(&cfg.Script, "script", "", "L-system script file")
	fs.StringVar(&cfg.Name, "name", "lsystem", "Name of the inline system")
	fs.StringVar(&cfg.Rules, "rules", "", `Inline rule string, e.g. "F=>F+F--F+F"`)
	fs.StringVar(&cfg.Axiom, "axiom", "F", "Inline axiom")
	fs.StringVar(&cfg.AngleText, "angle", "0", "Inline turning angle in degrees")
	fs.IntVar(&cfg.Iterations, "iterations", 1, "Inline iteration count")
	fs.Float64Var(&cfg.Length, "length", 1, "Inline segment length")
	fs.StringVar(&cfg.DrawSymbols, "draw", "", "Inline drawing symbols (default FGX)")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Script == "" && fs.NArg() > 0 {
		cfg.Script = fs.Arg(0)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case FormatPNG, FormatSVG, FormatDXF, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %d", c.Resolution)
	}
	if c.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %g", c.Scale)
	}
	if c.Script == "" && c.Rules == "" {
		return errors.New("a script file or -rules is required")
	}
	if c.Script != "" && c.Rules != "" {
		return errors.New("-script and -rules are mutually exclusive")
	}
	return nil
}

// Limits returns the generation limits.
func (c Config) Limits() lsystem.Limits {
	return lsystem.Limits{MaxSymbols: c.MaxSymbols}
}

// Viewport places a drawing with bounds b. A positive Scale keeps the
// world origin at the centre; otherwise the drawing is fitted.
func (c Config) Viewport(b turtle.Bounds) plot.Viewport {
	if c.Scale > 0 {
		return plot.Centered(c.Resolution, c.Resolution, c.Scale)
	}
	return plot.Fit(b, c.Resolution, c.Resolution, plot.DefaultMargin)
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
