package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/lindenmayer/pkg/catalog"
	"github.com/chazu/lindenmayer/pkg/grammar"
	"github.com/chazu/lindenmayer/pkg/lsystem"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Defaults applied to keywords missing from an (lsystem ...) form.
const (
	DefaultAxiom         = "X"
	DefaultIterations    = 1
	DefaultSegmentLength = 1.0
)

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpSystemRef is returned by (lsystem ...) so scripts can hold on to a
// definition.
type sexpSystemRef struct {
	name string
}

func (s *sexpSystemRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(lsystem %q)", s.name)
}
func (s *sexpSystemRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// unknown returns the keywords not in allowed, sorted.
func (a kwArgs) unknown(allowed ...string) []string {
	var extra []string
	for name := range a.kw {
		found := false
		for _, ok := range allowed {
			if name == ok {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, ":"+name)
		}
	}
	sort.Strings(extra)
	return extra
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number. Floats with a fractional part are rejected.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected whole number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toAngle accepts a number or angle text. Text that does not parse falls
// back to lsystem.DefaultAngle; soft reports whether that happened.
func toAngle(s zygo.Sexp) (deg float64, soft bool, err error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		v, parsed := lsystem.ParseAngle(str.S, lsystem.DefaultAngle)
		return v, !parsed, nil
	}
	v, err := toFloat64(s)
	return v, false, err
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the L-system builtins into a zygomys
// environment. Definitions are appended to c during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *catalog.Catalog) {

	// -----------------------------------------------------------------------
	// (rule "X" "F[-X][+X]")  =>  "X=>F[-X][+X]"
	// -----------------------------------------------------------------------
	env.AddFunction("rule", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rule requires a symbol and a replacement, got %d arguments", len(args))
		}
		sym, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rule: symbol: %w", err)
		}
		if len([]rune(sym)) != 1 {
			return zygo.SexpNull, fmt.Errorf("rule: symbol must be a single character, got %q", sym)
		}
		repl, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rule: replacement: %w", err)
		}
		if strings.Contains(repl, grammar.ClauseSeparator) {
			return zygo.SexpNull, fmt.Errorf("rule: replacement %q may not contain %q", repl, grammar.ClauseSeparator)
		}
		return &zygo.SexpStr{S: sym + grammar.Arrow + repl}, nil
	})

	// -----------------------------------------------------------------------
	// (rules (rule "X" "F[-X][+X]") "F=>FF")  =>  "X=>F[-X][+X], F=>FF"
	// -----------------------------------------------------------------------
	env.AddFunction("rules", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("rules requires at least one rule")
		}
		parts := make([]string, len(args))
		for i, a := range args {
			s, err := toString(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rules: argument %d: %w", i, err)
			}
			parts[i] = s
		}
		return &zygo.SexpStr{S: strings.Join(parts, grammar.ClauseSeparator+" ")}, nil
	})

	// -----------------------------------------------------------------------
	// (lsystem "fern" :rules "X=>F-[[X]+X]+F[+FX]-X, F=>FF" :axiom "X"
	//          :angle 22.5 :iterations 5 :length 1.3 :draw "FG")
	// -----------------------------------------------------------------------
	env.AddFunction("lsystem", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("lsystem requires a name as first argument")
		}
		sysName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lsystem: name: %w", err)
		}
		if extra := pa.unknown("rules", "axiom", "angle", "iterations", "length", "draw"); len(extra) > 0 {
			return zygo.SexpNull, fmt.Errorf("lsystem %q: unknown keywords %s", sysName, strings.Join(extra, " "))
		}

		cfg := lsystem.Config{
			Name:          sysName,
			Axiom:         DefaultAxiom,
			AngleDegrees:  lsystem.DefaultAngle,
			SegmentLength: DefaultSegmentLength,
			Iterations:    DefaultIterations,
		}

		v, ok := pa.kw["rules"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("lsystem %q: :rules is required", sysName)
		}
		if cfg.Rules, err = toString(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("lsystem %q: rules: %w", sysName, err)
		}
		if v, ok := pa.kw["axiom"]; ok {
			if cfg.Axiom, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lsystem %q: axiom: %w", sysName, err)
			}
		}
		if v, ok := pa.kw["angle"]; ok {
			deg, soft, err := toAngle(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("lsystem %q: angle: %w", sysName, err)
			}
			if soft {
				c.Warn(sysName, "angle %s is not a number, using %g", v.SexpString(nil), deg)
			}
			cfg.AngleDegrees = deg
		}
		if v, ok := pa.kw["iterations"]; ok {
			if cfg.Iterations, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lsystem %q: iterations: %w", sysName, err)
			}
		}
		if v, ok := pa.kw["length"]; ok {
			if cfg.SegmentLength, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lsystem %q: length: %w", sysName, err)
			}
		}
		if v, ok := pa.kw["draw"]; ok {
			if cfg.DrawSymbols, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lsystem %q: draw: %w", sysName, err)
			}
		}

		c.Add(&catalog.Entry{Config: cfg})
		return &sexpSystemRef{name: sysName}, nil
	})
}
