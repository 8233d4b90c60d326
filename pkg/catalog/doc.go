// Package catalog holds an ordered, name-indexed set of L-system
// definitions produced by script evaluation. A catalog is built once per
// evaluation and not mutated afterwards.
package catalog
