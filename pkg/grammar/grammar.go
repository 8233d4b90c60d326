package grammar

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Placeholders are drawn from the Unicode Private Use Area. Grammar symbols
// may not use this range, so a placeholder can never be mistaken for a
// real symbol during a rewriting round.
const (
	PlaceholderFirst rune = '\uE000'
	PlaceholderLast  rune = '\uF8FF'

	// MaxRules is the number of distinct placeholders available.
	MaxRules = int(PlaceholderLast-PlaceholderFirst) + 1
)

// IsReserved reports whether r lies in the placeholder range.
func IsReserved(r rune) bool {
	return r >= PlaceholderFirst && r <= PlaceholderLast
}

// Grammar is a parsed L-system together with its turtle parameters.
// A Grammar is immutable after New and safe for concurrent use.
type Grammar struct {
	Axiom         string
	Rules         []Rule
	Angle         float64 // radians
	SegmentLength float64
	Iterations    int

	placeholders []string
	symbols      []string
}

// New parses ruleText and builds a Grammar. angleDegrees is converted to
// radians. A zero or negative segment length is accepted.
func New(ruleText, axiom string, angleDegrees, segmentLength float64, iterations int) (*Grammar, error) {
	if axiom == "" {
		return nil, ErrEmptyAxiom
	}
	if !utf8.ValidString(axiom) {
		return nil, fmt.Errorf("axiom: %w", ErrInvalidUTF8)
	}
	if iterations < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeIterations, iterations)
	}
	if math.IsNaN(angleDegrees) || math.IsInf(angleDegrees, 0) {
		return nil, fmt.Errorf("angle: %w", ErrNonFinite)
	}
	if math.IsNaN(segmentLength) || math.IsInf(segmentLength, 0) {
		return nil, fmt.Errorf("segment length: %w", ErrNonFinite)
	}

	rules, err := Parse(ruleText)
	if err != nil {
		return nil, err
	}
	return build(rules, axiom, angleDegrees*math.Pi/180, segmentLength, iterations)
}

func build(rules []Rule, axiom string, angle, length float64, iterations int) (*Grammar, error) {
	if len(rules) > MaxRules {
		return nil, fmt.Errorf("%w: %d rules, at most %d supported", ErrTooManyRules, len(rules), MaxRules)
	}
	if err := checkReserved(axiom, "axiom"); err != nil {
		return nil, err
	}

	g := &Grammar{
		Axiom:         axiom,
		Rules:         rules,
		Angle:         angle,
		SegmentLength: length,
		Iterations:    iterations,
		placeholders:  make([]string, len(rules)),
		symbols:       make([]string, len(rules)),
	}
	for i, r := range rules {
		if IsReserved(r.Symbol) {
			return nil, &SymbolError{Symbol: r.Symbol, Where: fmt.Sprintf("rule %d symbol", i)}
		}
		if err := checkReserved(r.Replacement, fmt.Sprintf("rule %d replacement", i)); err != nil {
			return nil, err
		}
		g.placeholders[i] = string(PlaceholderFirst + rune(i))
		g.symbols[i] = string(r.Symbol)
	}
	return g, nil
}

func checkReserved(s, where string) error {
	for _, r := range s {
		if IsReserved(r) {
			return &SymbolError{Symbol: r, Where: where}
		}
	}
	return nil
}

// Rewrite applies one round of simultaneous substitution to s.
//
// Every rule symbol is first swapped for its placeholder, then every
// placeholder is swapped for its replacement, both passes in rule order.
// Text produced by a replacement is therefore never rewritten again within
// the same round.
func (g *Grammar) Rewrite(s string) string {
	for i := range g.Rules {
		s = strings.ReplaceAll(s, g.symbols[i], g.placeholders[i])
	}
	for i, r := range g.Rules {
		s = strings.ReplaceAll(s, g.placeholders[i], r.Replacement)
	}
	return s
}

// Expand applies Iterations rounds of Rewrite to the axiom. With zero
// iterations the axiom is returned unchanged.
func (g *Grammar) Expand() string {
	s := g.Axiom
	for i := 0; i < g.Iterations; i++ {
		s = g.Rewrite(s)
	}
	return s
}

// String returns the canonical rule string.
func (g *Grammar) String() string {
	return Format(g.Rules)
}
