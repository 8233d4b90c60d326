package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Severity indicates whether a finding blocks generation.
type Severity int

const (
	SeverityError   Severity = iota // entry must not be generated
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Name     string // entry name, empty for unnamed entries
	Index    int    // entry position in the catalog
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("[%s] entry %d: %s", e.Severity, e.Index, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Name, e.Message)
}

// Validate checks catalog-level constraints and returns every finding.
// maxIterations caps the iteration count per entry; zero disables the
// check. Grammar syntax is not checked here; generation reports it.
// Validate is read-only.
func Validate(c *Catalog, maxIterations int) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(c)...)
	for i, e := range c.entries {
		errs = append(errs, validateEntry(i, e, maxIterations)...)
	}
	return errs
}

// HasErrors reports whether any finding has SeverityError.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Blocked returns the indexes of entries with at least one error.
func Blocked(errs []ValidationError) map[int]bool {
	blocked := make(map[int]bool)
	for _, e := range errs {
		if e.Severity == SeverityError {
			blocked[e.Index] = true
		}
	}
	return blocked
}

func validateNames(c *Catalog) []ValidationError {
	var errs []ValidationError
	first := make(map[string]int)
	for i, e := range c.entries {
		name := e.Name()
		if name == "" {
			errs = append(errs, ValidationError{
				Index:    i,
				Message:  "entry has no name",
				Severity: SeverityError,
			})
			continue
		}
		if prev, dup := first[name]; dup {
			errs = append(errs, ValidationError{
				Name:     name,
				Index:    i,
				Message:  fmt.Sprintf("duplicate name, first defined as entry %d", prev),
				Severity: SeverityError,
			})
			continue
		}
		first[name] = i
	}
	return errs
}

func validateEntry(i int, e *Entry, maxIterations int) []ValidationError {
	var errs []ValidationError
	add := func(sev Severity, format string, args ...any) {
		errs = append(errs, ValidationError{
			Name:     e.Name(),
			Index:    i,
			Message:  fmt.Sprintf(format, args...),
			Severity: sev,
		})
	}

	cfg := e.Config
	if maxIterations > 0 && cfg.Iterations > maxIterations {
		add(SeverityError, "iterations %d exceed the limit of %d", cfg.Iterations, maxIterations)
	}
	if !finite(cfg.AngleDegrees) {
		add(SeverityError, "angle is not finite")
	}
	if !finite(cfg.SegmentLength) {
		add(SeverityError, "segment length is not finite")
	} else if cfg.SegmentLength <= 0 {
		add(SeverityWarning, "segment length %g collapses the drawing", cfg.SegmentLength)
	}
	if cfg.DrawSymbols != "" && !strings.ContainsAny(cfg.Axiom+cfg.Rules, cfg.DrawSymbols) {
		add(SeverityWarning, "draw symbols %q never occur in the axiom or rules", cfg.DrawSymbols)
	}
	return errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
