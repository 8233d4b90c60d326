// Package lsystem runs the full pipeline: a Config is parsed into a
// grammar, expanded into a derived string and interpreted into paths.
//
// String length grows exponentially with the iteration count. The grammar
// and turtle packages never bound it; callers that accept untrusted input
// should set Limits.MaxSymbols.
package lsystem

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chazu/lindenmayer/pkg/grammar"
	"github.com/chazu/lindenmayer/pkg/turtle"
)

// DefaultAngle is substituted when angle text cannot be parsed.
const DefaultAngle = 0.0

// ErrTooLong matches any *TooLongError.
var ErrTooLong = errors.New("derived string exceeds symbol limit")

// TooLongError reports the round at which expansion crossed the limit.
type TooLongError struct {
	Round  int // one-based rewriting round
	Length int // symbols produced by that round
	Limit  int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("%s: round %d produced %d symbols, limit is %d", ErrTooLong, e.Round, e.Length, e.Limit)
}

func (e *TooLongError) Is(target error) bool {
	return target == ErrTooLong
}

// Config is the user-facing description of one L-system.
type Config struct {
	Name          string  `json:"name"`
	Rules         string  `json:"rules"`
	Axiom         string  `json:"axiom"`
	AngleDegrees  float64 `json:"angle"`
	SegmentLength float64 `json:"length"`
	Iterations    int     `json:"iterations"`
	DrawSymbols   string  `json:"draw,omitempty"`
}

// Limits bounds resource use during generation.
type Limits struct {
	// MaxSymbols caps the derived string length in runes. Zero disables
	// the cap.
	MaxSymbols int
}

// Result is the output of one generation.
type Result struct {
	Derived string       `json:"-"`
	Paths   turtle.Paths `json:"paths"`
}

// Grammar builds the grammar described by cfg.
func (cfg Config) Grammar() (*grammar.Grammar, error) {
	return grammar.New(cfg.Rules, cfg.Axiom, cfg.AngleDegrees, cfg.SegmentLength, cfg.Iterations)
}

// Expand builds the grammar and returns the derived string, enforcing
// lim after every round.
func Expand(cfg Config, lim Limits) (*grammar.Grammar, string, error) {
	g, err := cfg.Grammar()
	if err != nil {
		return nil, "", err
	}

	s := g.Axiom
	for round := 1; round <= g.Iterations; round++ {
		s = g.Rewrite(s)
		if lim.MaxSymbols > 0 {
			if n := len(s); n > lim.MaxSymbols {
				// Byte length bounds rune length from above; count runes
				// only when it matters.
				if n = utf8.RuneCountInString(s); n > lim.MaxSymbols {
					return nil, "", &TooLongError{Round: round, Length: n, Limit: lim.MaxSymbols}
				}
			}
		}
	}
	return g, s, nil
}

// Generate expands cfg and interprets the derived string.
func Generate(cfg Config, lim Limits) (*Result, error) {
	g, derived, err := Expand(cfg, lim)
	if err != nil {
		return nil, err
	}

	// On an unbalanced bracket the paths closed before it are still
	// returned alongside the error.
	paths, err := turtle.Interpret(derived, g.Angle, g.SegmentLength, turtle.Options{DrawSymbols: cfg.DrawSymbols})
	return &Result{Derived: derived, Paths: paths}, err
}

// ParseAngle parses user-supplied angle text in degrees. Unparseable or
// non-finite text yields fallback and false.
func ParseAngle(text string, fallback float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback, false
	}
	return v, true
}
