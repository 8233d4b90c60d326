package grammar

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Arrow separates a rule's symbol from its replacement.
const Arrow = "=>"

// ClauseSeparator separates rules within a rule string.
const ClauseSeparator = ","

// Rule rewrites one symbol into a replacement string.
type Rule struct {
	Symbol      rune
	Replacement string
}

func (r Rule) String() string {
	return string(r.Symbol) + Arrow + r.Replacement
}

// Parse splits a rule string such as "X=>F[-X][+X], F=>FF" into rules,
// preserving declaration order.
func Parse(ruleText string) ([]Rule, error) {
	clauses := strings.Split(ruleText, ClauseSeparator)
	rules := make([]Rule, 0, len(clauses))
	seen := make(map[rune]int, len(clauses))

	for i, raw := range clauses {
		clause := strings.TrimSpace(raw)
		if clause == "" {
			return nil, &RuleError{Clause: i, Reason: "empty clause"}
		}

		// A raw byte would decode as U+FFFD and never match during rewriting.
		if !utf8.ValidString(clause) {
			return nil, &RuleError{Clause: i, Text: clause, Reason: "invalid UTF-8"}
		}

		sym, size := utf8.DecodeRuneInString(clause)
		rest := strings.TrimSpace(clause[size:])
		if !strings.HasPrefix(rest, Arrow) {
			return nil, &RuleError{Clause: i, Text: clause, Reason: fmt.Sprintf("expected %q after symbol %q", Arrow, sym)}
		}
		if prev, dup := seen[sym]; dup {
			return nil, &RuleError{Clause: i, Text: clause, Reason: fmt.Sprintf("symbol %q already defined by clause %d", sym, prev)}
		}
		seen[sym] = i

		rules = append(rules, Rule{
			Symbol:      sym,
			Replacement: strings.TrimSpace(rest[len(Arrow):]),
		})
	}
	return rules, nil
}

// Format renders rules back into a rule string.
func Format(rules []Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, ClauseSeparator+" ")
}
