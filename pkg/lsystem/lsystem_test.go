package lsystem_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/lindenmayer/pkg/grammar"
	"github.com/chazu/lindenmayer/pkg/lsystem"
	"github.com/chazu/lindenmayer/pkg/turtle"
)

func fern() lsystem.Config {
	return lsystem.Config{
		Name:          "fern",
		Rules:         "X=>F-[[X]+X]+F[+FX]-X, F=>FF",
		Axiom:         "X",
		AngleDegrees:  22.5,
		SegmentLength: 1.3,
		Iterations:    3,
	}
}

func TestGenerateKoch(t *testing.T) {
	res, err := lsystem.Generate(lsystem.Config{
		Rules:         "F=>F+F--F+F",
		Axiom:         "F",
		AngleDegrees:  60,
		SegmentLength: 1,
		Iterations:    1,
	}, lsystem.Limits{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Derived != "F+F--F+F" {
		t.Errorf("Derived = %q", res.Derived)
	}
	if len(res.Paths) != 1 || len(res.Paths[0]) != 5 {
		t.Errorf("expected one path of 5 points, got %v", res.Paths)
	}
}

func TestGenerateZeroIterations(t *testing.T) {
	cfg := fern()
	cfg.Iterations = 0
	res, err := lsystem.Generate(cfg, lsystem.Limits{MaxSymbols: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Derived != cfg.Axiom {
		t.Errorf("Derived = %q, want axiom %q", res.Derived, cfg.Axiom)
	}
}

func TestGenerateBranchCount(t *testing.T) {
	res, err := lsystem.Generate(fern(), lsystem.Limits{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	pairs := strings.Count(res.Derived, "]")
	if len(res.Paths) != pairs+1 {
		t.Errorf("expected %d paths, got %d", pairs+1, len(res.Paths))
	}
}

func TestGenerateInvalidGrammar(t *testing.T) {
	cfg := fern()
	cfg.Rules = "X"
	_, err := lsystem.Generate(cfg, lsystem.Limits{})
	if !errors.Is(err, grammar.ErrMalformedRule) {
		t.Errorf("error = %v, want ErrMalformedRule", err)
	}
}

func TestGenerateUnbalancedKeepsPartialPaths(t *testing.T) {
	res, err := lsystem.Generate(lsystem.Config{
		Rules:         "A=>F[+F]F]",
		Axiom:         "A",
		AngleDegrees:  90,
		SegmentLength: 1,
		Iterations:    1,
	}, lsystem.Limits{})
	var ube *turtle.UnbalancedBracketError
	if !errors.As(err, &ube) {
		t.Fatalf("error = %v, want *UnbalancedBracketError", err)
	}
	if ube.Index != 6 {
		t.Errorf("Index = %d, want 6", ube.Index)
	}
	if res == nil || len(res.Paths) != 1 {
		t.Fatalf("expected 1 completed path, got %+v", res)
	}
}

func TestGenerateSymbolLimit(t *testing.T) {
	cfg := lsystem.Config{
		Rules:         "F=>FF",
		Axiom:         "F",
		AngleDegrees:  90,
		SegmentLength: 1,
		Iterations:    10,
	}

	_, err := lsystem.Generate(cfg, lsystem.Limits{MaxSymbols: 100})
	var tle *lsystem.TooLongError
	if !errors.As(err, &tle) {
		t.Fatalf("error = %v, want *TooLongError", err)
	}
	if !errors.Is(err, lsystem.ErrTooLong) {
		t.Error("TooLongError should match ErrTooLong")
	}
	// 2^7 = 128 is the first length above 100.
	if tle.Round != 7 || tle.Length != 128 {
		t.Errorf("TooLongError = %+v, want round 7 length 128", tle)
	}

	res, err := lsystem.Generate(cfg, lsystem.Limits{MaxSymbols: 1024})
	if err != nil {
		t.Fatalf("limit equal to final length should pass: %v", err)
	}
	if len(res.Derived) != 1024 {
		t.Errorf("len(Derived) = %d, want 1024", len(res.Derived))
	}
}

func TestGenerateSymbolLimitCountsRunes(t *testing.T) {
	cfg := lsystem.Config{
		Rules:         "λ=>λλ",
		Axiom:         "λ",
		SegmentLength: 1,
		Iterations:    3,
	}
	// 8 runes, 16 bytes.
	if _, err := lsystem.Generate(cfg, lsystem.Limits{MaxSymbols: 8}); err != nil {
		t.Errorf("Generate: %v", err)
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"22.5", 22.5, true},
		{" 90 ", 90, true},
		{"-60", -60, true},
		{"", lsystem.DefaultAngle, false},
		{"ninety", lsystem.DefaultAngle, false},
		{"NaN", lsystem.DefaultAngle, false},
		{"Inf", lsystem.DefaultAngle, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := lsystem.ParseAngle(tt.text, lsystem.DefaultAngle)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseAngle(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGenerateAll(t *testing.T) {
	bad := fern()
	bad.Name = "bad"
	bad.Axiom = ""

	cfgs := []lsystem.Config{fern(), bad, {
		Name:          "koch",
		Rules:         "F=>F+F--F+F",
		Axiom:         "F",
		AngleDegrees:  60,
		SegmentLength: 1,
		Iterations:    2,
	}}

	out, err := lsystem.GenerateAll(context.Background(), cfgs, lsystem.Limits{}, 2)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(out) != len(cfgs) {
		t.Fatalf("expected %d outcomes, got %d", len(cfgs), len(out))
	}
	for i, o := range out {
		if o.Config.Name != cfgs[i].Name {
			t.Errorf("outcome %d is %q, want %q", i, o.Config.Name, cfgs[i].Name)
		}
	}
	if out[0].Err != nil || out[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", out[0].Err, out[2].Err)
	}
	if !errors.Is(out[1].Err, grammar.ErrEmptyAxiom) {
		t.Errorf("outcome 1 error = %v, want ErrEmptyAxiom", out[1].Err)
	}

	// Concurrent results match sequential ones.
	seq, err := lsystem.Generate(cfgs[0], lsystem.Limits{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seq.Derived != out[0].Result.Derived {
		t.Error("concurrent derived string differs from sequential")
	}
}

func TestGenerateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lsystem.GenerateAll(ctx, []lsystem.Config{fern()}, lsystem.Limits{}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
