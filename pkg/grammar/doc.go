// Package grammar parses L-system rule strings and rewrites an axiom by
// simultaneous symbol substitution.
package grammar
