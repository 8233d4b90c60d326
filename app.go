package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/chazu/lindenmayer/pkg/catalog"
	"github.com/chazu/lindenmayer/pkg/engine"
	"github.com/chazu/lindenmayer/pkg/grammar"
	"github.com/chazu/lindenmayer/pkg/lsystem"
	"github.com/chazu/lindenmayer/pkg/plot"
	"github.com/chazu/lindenmayer/pkg/plot/raster"
	"github.com/chazu/lindenmayer/pkg/plot/sdfx"
	"github.com/chazu/lindenmayer/pkg/plot/vector"
	"github.com/chazu/lindenmayer/pkg/turtle"
)

// Output formats handled by an Exporter.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatDXF = "dxf"
)

// App evaluates L-system scripts and exports the resulting drawings.
// Evaluate calls are serialized on the shared engine, so concurrent callers
// wait instead of superseding each other.
type App struct {
	evalMu        sync.Mutex
	engine        *engine.Engine
	limits        lsystem.Limits
	maxIterations int
	workers       int
	exporters     map[string]plot.Exporter
}

// AppOption configures an App.
type AppOption func(*App)

// WithLimits sets the generation limits.
func WithLimits(lim lsystem.Limits) AppOption {
	return func(a *App) { a.limits = lim }
}

// WithMaxIterations caps the iteration count of every system. Zero
// disables the cap.
func WithMaxIterations(n int) AppOption {
	return func(a *App) { a.maxIterations = n }
}

// WithWorkers sets the generation pool size. Zero uses one worker per CPU.
func WithWorkers(n int) AppOption {
	return func(a *App) { a.workers = n }
}

// SystemData is the JSON-serializable result for one L-system.
type SystemData struct {
	Name       string         `json:"name"`
	Rules      string         `json:"rules"`
	Axiom      string         `json:"axiom"`
	Angle      float64        `json:"angle"`
	Iterations int            `json:"iterations"`
	Symbols    int            `json:"symbols"`
	File       string         `json:"file"` // export base name, unique within a result
	Paths      turtle.Paths   `json:"paths"`
	Bounds     *turtle.Bounds `json:"bounds,omitempty"`
	// Error is set when only part of the drawing could be interpreted.
	Error string `json:"error,omitempty"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	System  string `json:"system,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Systems  []SystemData    `json:"systems"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with a script engine and the PNG, SVG and DXF
// exporters.
func NewApp(opts ...AppOption) *App {
	a := &App{
		engine: engine.NewEngine(),
		exporters: map[string]plot.Exporter{
			FormatPNG: raster.New(),
			FormatSVG: vector.New(),
			FormatDXF: sdfx.New(),
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Exporter returns the exporter registered for format.
func (a *App) Exporter(format string) (plot.Exporter, bool) {
	e, ok := a.exporters[strings.ToLower(format)]
	return e, ok
}

// Evaluate takes script source and returns generated systems and errors.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with a context bounding generation.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	a.evalMu.Lock()
	c, evalErrs, err := a.engine.Evaluate(source)
	a.evalMu.Unlock()
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result := newEvalResult()
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result := newEvalResult()
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	return a.Generate(ctx, c)
}

// Generate validates the catalog and generates every entry without
// validation errors.
func (a *App) Generate(ctx context.Context, c *catalog.Catalog) EvalResult {
	result := newEvalResult()

	for _, w := range c.Warnings() {
		result.Warnings = append(result.Warnings, EvalErrorData{System: w.Name, Message: w.Message})
	}

	findings := catalog.Validate(c, a.maxIterations)
	for _, f := range findings {
		d := EvalErrorData{System: f.Name, Message: f.Message}
		if f.Severity == catalog.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	blocked := catalog.Blocked(findings)
	if catalog.HasErrors(findings) {
		log.Printf("Validate: skipping %d of %d systems", len(blocked), c.Len())
	}

	var cfgs []lsystem.Config
	for i, cfg := range c.Configs() {
		if !blocked[i] {
			cfgs = append(cfgs, cfg)
		}
	}

	outcomes, err := lsystem.GenerateAll(ctx, cfgs, a.limits, a.workers)
	if err != nil {
		log.Printf("Generate canceled: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "generation canceled: " + err.Error()})
		return result
	}

	for _, o := range outcomes {
		if o.Err != nil {
			result.Errors = append(result.Errors, EvalErrorData{System: o.Config.Name, Message: o.Err.Error()})
			// An unbalanced bracket still yields the paths closed before it.
			if o.Result == nil {
				continue
			}
		}
		result.Systems = append(result.Systems, systemData(o))
	}
	assignFileNames(result.Systems)
	return result
}

// Export writes sys to dir in the given format and returns the file path.
func (a *App) Export(sys SystemData, format, dir string, vp plot.Viewport) (string, error) {
	e, ok := a.Exporter(format)
	if !ok {
		return "", fmt.Errorf("unknown format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	base := sys.File
	if base == "" {
		base = fileName(sys.Name)
	}
	path := filepath.Join(dir, base+e.Extension())
	d := plot.Drawing{Title: sys.Rules, Paths: sys.Paths}
	if err := e.Export(path, d, vp); err != nil {
		return "", err
	}
	return path, nil
}

func newEvalResult() EvalResult {
	return EvalResult{
		Systems:  []SystemData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func systemData(o lsystem.Outcome) SystemData {
	cfg := o.Config
	rules := cfg.Rules
	if parsed, err := grammar.Parse(cfg.Rules); err == nil {
		rules = grammar.Format(parsed)
	}
	sys := SystemData{
		Name:       cfg.Name,
		Rules:      rules,
		Axiom:      cfg.Axiom,
		Angle:      cfg.AngleDegrees,
		Iterations: cfg.Iterations,
		Symbols:    utf8.RuneCountInString(o.Result.Derived),
		Paths:      o.Result.Paths,
	}
	if o.Err != nil {
		sys.Error = o.Err.Error()
	}
	if b := o.Result.Paths.Bounds(); !b.Empty() {
		sys.Bounds = &b
	}
	return sys
}

// assignFileNames gives every system a distinct file base name. Names that
// map to the same base get a numeric suffix in declaration order.
func assignFileNames(systems []SystemData) {
	used := make(map[string]bool, len(systems))
	for i := range systems {
		base := fileName(systems[i].Name)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		systems[i].File = name
	}
}

// fileName maps a system name onto a safe file base name.
func fileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "lsystem"
	}
	return s
}
