// Command lsys expands L-system grammars and draws them with a turtle.
//
// Usage:
//
//	lsys [flags] script.lsys
//	lsys [flags] -rules "F=>F+F--F+F" -axiom F -angle 60 -iterations 4
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/chazu/lindenmayer/pkg/catalog"
	"github.com/chazu/lindenmayer/pkg/lsystem"
)

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		Exitf("lsys: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, os.Stdout); err != nil {
		Exitf("lsys: %v", err)
	}
}

func run(ctx context.Context, cfg Config, stdout io.Writer) error {
	app := NewApp(
		WithLimits(cfg.Limits()),
		WithMaxIterations(cfg.MaxIterations),
		WithWorkers(cfg.Workers),
	)

	var result EvalResult
	if cfg.Script != "" {
		source, err := os.ReadFile(cfg.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		result = app.EvaluateContext(ctx, string(source))
	} else {
		result = app.Generate(ctx, inlineCatalog(cfg))
	}

	for _, w := range result.Warnings {
		log.Printf("warning: %s", describe(w))
	}
	for _, e := range result.Errors {
		log.Printf("error: %s", describe(e))
	}

	if cfg.Format == FormatJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		for _, sys := range result.Systems {
			vp := cfg.Viewport(sys.Paths.Bounds())
			path, err := app.Export(sys, cfg.Format, cfg.OutputDir, vp)
			if err != nil {
				return fmt.Errorf("export %s: %w", sys.Name, err)
			}
			log.Printf("wrote %s (%d symbols, %d points)", path, sys.Symbols, sys.Paths.PointCount())
		}
	}

	if n := len(result.Errors); n > 0 {
		return fmt.Errorf("%d error(s)", n)
	}
	return nil
}

// inlineCatalog builds a one-entry catalog from the inline flags.
func inlineCatalog(cfg Config) *catalog.Catalog {
	c := catalog.New()
	angle, ok := lsystem.ParseAngle(cfg.AngleText, lsystem.DefaultAngle)
	if !ok {
		c.Warn(cfg.Name, "angle %q is not a number, using %g", cfg.AngleText, lsystem.DefaultAngle)
	}
	c.Add(&catalog.Entry{Config: lsystem.Config{
		Name:          cfg.Name,
		Rules:         cfg.Rules,
		Axiom:         cfg.Axiom,
		AngleDegrees:  angle,
		SegmentLength: cfg.Length,
		Iterations:    cfg.Iterations,
		DrawSymbols:   cfg.DrawSymbols,
	}})
	return c
}

func describe(e EvalErrorData) string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.System != "":
		return e.System + ": " + e.Message
	default:
		return e.Message
	}
}
