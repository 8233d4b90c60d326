package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRule is returned when a rule clause cannot be parsed.
	ErrMalformedRule = errors.New("malformed rule")

	// ErrPlaceholderCollision is returned when a grammar symbol falls inside
	// the rune range reserved for rewriting placeholders.
	ErrPlaceholderCollision = errors.New("symbol collides with reserved placeholder range")

	ErrTooManyRules       = errors.New("too many rules")
	ErrEmptyAxiom         = errors.New("axiom is empty")
	ErrNegativeIterations = errors.New("iteration count is negative")
	ErrNonFinite          = errors.New("value is not finite")
	ErrInvalidUTF8        = errors.New("text is not valid UTF-8")
)

// RuleError describes a clause of a rule string that failed to parse.
type RuleError struct {
	Clause int    // zero-based clause index within the rule string
	Text   string // clause text after trimming
	Reason string
}

func (e *RuleError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s: clause %d: %s", ErrMalformedRule, e.Clause, e.Reason)
	}
	return fmt.Sprintf("%s: clause %d (%q): %s", ErrMalformedRule, e.Clause, e.Text, e.Reason)
}

func (e *RuleError) Unwrap() error { return ErrMalformedRule }

// SymbolError reports a symbol that occupies the reserved placeholder range.
type SymbolError struct {
	Symbol rune
	Where  string // "axiom", "rule 2 symbol", "rule 2 replacement"
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s: %U in %s", ErrPlaceholderCollision, e.Symbol, e.Where)
}

func (e *SymbolError) Unwrap() error { return ErrPlaceholderCollision }
