package grammar

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Rule
	}{
		{
			name:  "single rule",
			input: "F=>F+F--F+F",
			want:  []Rule{{Symbol: 'F', Replacement: "F+F--F+F"}},
		},
		{
			name:  "two rules keep declaration order",
			input: "X=>F-[[X]+X]+F[+FX]-X, F=>FF",
			want:  []Rule{
				{Symbol: 'X', Replacement: "F-[[X]+X]+F[+FX]-X"},
				{Symbol: 'F', Replacement: "FF"},
			},
		},
		{
			name:  "spaces around arrow",
			input: "  X => F[-X][+X]  ",
			want:  []Rule{{Symbol: 'X', Replacement: "F[-X][+X]"}},
		},
		{
			name:  "empty replacement erases symbol",
			input: "A=>",
			want:  []Rule{{Symbol: 'A', Replacement: ""}},
		},
		{
			name:  "non-ascii symbol",
			input: "λ=>λλ",
			want:  []Rule{{Symbol: 'λ', Replacement: "λλ"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) returned %d rules, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rule %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		clause int
	}{
		{"empty string", "", 0},
		{"whitespace only", "   ", 0},
		{"trailing comma", "F=>FF,", 1},
		{"empty middle clause", "F=>FF, ,G=>GG", 1},
		{"missing arrow", "F FF", 0},
		{"single equals", "F=FF", 0},
		{"symbol only", "F", 0},
		{"duplicate symbol", "F=>FF, F=>F+F", 1},
		{"invalid utf-8 symbol", "\xff=>FF", 0},
		{"invalid utf-8 replacement", "F=>FF, G=>G\xfe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrMalformedRule) {
				t.Errorf("error %v does not match ErrMalformedRule", err)
			}
			var re *RuleError
			if !errors.As(err, &re) {
				t.Fatalf("error %T is not *RuleError", err)
			}
			if re.Clause != tt.clause {
				t.Errorf("RuleError.Clause = %d, want %d", re.Clause, tt.clause)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	input := "A=>+BF-AFA-FB+, B=>-AF+BFB+FA-"
	rules, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Format(rules); got != input {
		t.Errorf("Format = %q, want %q", got, input)
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewConvertsDegrees(t *testing.T) {
	g, err := New("F=>F+F--F+F", "F", 60, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if math.Abs(g.Angle-math.Pi/3) > 1e-12 {
		t.Errorf("Angle = %v, want pi/3", g.Angle)
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		axiom      string
		angle      float64
		length     float64
		iterations int
		want       error
	}{
		{"empty axiom", "F=>FF", "", 90, 1, 1, ErrEmptyAxiom},
		{"negative iterations", "F=>FF", "F", 90, 1, -1, ErrNegativeIterations},
		{"NaN length", "F=>FF", "F", 90, math.NaN(), 1, ErrNonFinite},
		{"infinite length", "F=>FF", "F", 90, math.Inf(1), 1, ErrNonFinite},
		{"infinite angle", "F=>FF", "F", math.Inf(-1), 1, 1, ErrNonFinite},
		{"malformed rule", "F", "F", 90, 1, 1, ErrMalformedRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input, tt.axiom, tt.angle, tt.length, tt.iterations)
			if !errors.Is(err, tt.want) {
				t.Errorf("New error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewAcceptsDegenerateLength(t *testing.T) {
	for _, length := range []float64{0, -3} {
		if _, err := New("F=>FF", "F", 90, length, 2); err != nil {
			t.Errorf("New with length %v: %v", length, err)
		}
	}
}

func TestNewRejectsReservedSymbols(t *testing.T) {
	reserved := string(PlaceholderFirst)
	last := string(PlaceholderLast)

	tests := []struct {
		name  string
		input string
		axiom string
		where string
	}{
		{"in axiom", "F=>FF", "F" + reserved, "axiom"},
		{"as rule symbol", reserved + "=>FF", "F", "rule 0 symbol"},
		{"in replacement", "F=>F" + last + "F", "F", "rule 0 replacement"},
		{"in second replacement", "F=>FF, G=>" + reserved, "F", "rule 1 replacement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input, tt.axiom, 90, 1, 1)
			if !errors.Is(err, ErrPlaceholderCollision) {
				t.Fatalf("New error = %v, want ErrPlaceholderCollision", err)
			}
			var se *SymbolError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *SymbolError", err)
			}
			if se.Where != tt.where {
				t.Errorf("SymbolError.Where = %q, want %q", se.Where, tt.where)
			}
		})
	}
}

func TestNewRejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		axiom string
		want  error
	}{
		{"raw byte rule symbol", "\xff=>FF", "F", ErrMalformedRule},
		{"raw byte axiom", "F=>FF", "F\xff", ErrInvalidUTF8},
		{"raw byte in both", "\xff=>FF", "\xff", ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.input, tt.axiom, 90, 1, 1)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New error = %v, want %v", err, tt.want)
			}
			if g != nil {
				t.Errorf("New returned a grammar alongside the error")
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	if IsReserved('F') {
		t.Error("IsReserved('F') = true")
	}
	if !IsReserved(PlaceholderFirst) || !IsReserved(PlaceholderLast) {
		t.Error("range bounds should be reserved")
	}
	if IsReserved(PlaceholderLast + 1) {
		t.Error("rune after range should not be reserved")
	}
}

// ---------------------------------------------------------------------------
// Expansion
// ---------------------------------------------------------------------------

func TestExpand(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		axiom      string
		iterations int
		want       string
	}{
		{"zero iterations returns axiom", "F=>F+F--F+F", "F+F", 0, "F+F"},
		{"koch one round", "F=>F+F--F+F", "F", 1, "F+F--F+F"},
		{"koch two rounds", "F=>F+F--F+F", "F", 2,
			"F+F--F+F+F+F--F+F--F+F--F+F+F+F--F+F"},
		{"binary tree", "X=>F[-X][+X]", "X", 1, "F[-X][+X]"},
		{"axiom without rule symbols", "F=>FF", "+-[]", 3, "+-[]"},
		{"algae", "A=>AB, B=>A", "A", 4, "ABAABABA"},
		{"dragon", "F=>F+X, X=>F-X", "F", 2, "F+X+F-X"},
		{"erasing rule", "A=>, B=>AB", "BAB", 1, "ABAB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.input, tt.axiom, 90, 1, tt.iterations)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := g.Expand(); got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Each rule's output must not be rewritten by a later rule in the same
// round, even when that output contains later rules' symbols.
func TestRewriteIsSimultaneous(t *testing.T) {
	g, err := New("A=>B, B=>A", "AB", 0, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := g.Rewrite("AABB"); got != "BBAA" {
		t.Errorf("Rewrite(AABB) = %q, want BBAA", got)
	}
	if got := g.Expand(); got != "BA" {
		t.Errorf("Expand() = %q, want BA", got)
	}
}

// The fixed four-placeholder scheme capped grammars at four rules; any
// number of rules must now work.
func TestExpandManyRules(t *testing.T) {
	const n = 40
	var clauses []string
	var axiom strings.Builder
	var want strings.Builder
	for i := 0; i < n; i++ {
		from := rune('Ā' + i)
		to := rune('Ā' + (i+1)%n)
		clauses = append(clauses, string(from)+"=>"+string(to))
		axiom.WriteRune(from)
		want.WriteRune(to)
	}

	g, err := New(strings.Join(clauses, ","), axiom.String(), 0, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := g.Expand(); got != want.String() {
		t.Errorf("Expand() rotated alphabet incorrectly:\n got %q\nwant %q", got, want.String())
	}
}

func TestExpandDeterministic(t *testing.T) {
	g, err := New("X=>F-[[X]+X]+F[+FX]-X, F=>FF", "X", 22.5, 1, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := g.Expand()
	for i := 0; i < 5; i++ {
		if got := g.Expand(); got != first {
			t.Fatalf("Expand() run %d differs from first run", i)
		}
	}
}

func TestGrammarString(t *testing.T) {
	g, err := New(" F => FF ,G=>GG", "F", 90, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := g.String(); got != "F=>FF, G=>GG" {
		t.Errorf("String() = %q", got)
	}
}
