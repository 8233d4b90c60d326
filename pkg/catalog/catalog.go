package catalog

import (
	"fmt"

	"github.com/chazu/lindenmayer/pkg/lsystem"
)

// Entry is one named L-system definition.
type Entry struct {
	Config lsystem.Config `json:"config"`
}

// Name returns the entry's configured name.
func (e *Entry) Name() string {
	return e.Config.Name
}

// Warning is an advisory note attached during evaluation, such as a soft
// fallback for an unparseable angle.
type Warning struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Name == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Name, w.Message)
}

// Catalog keeps entries in declaration order.
type Catalog struct {
	entries   []*Entry
	nameIndex map[string]int
	warnings  []Warning
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		nameIndex: make(map[string]int),
	}
}

// Add appends an entry. It does not check for duplicate names; a later
// entry shadows an earlier one in Lookup and Validate reports it.
func (c *Catalog) Add(e *Entry) {
	c.entries = append(c.entries, e)
	if e.Name() != "" {
		c.nameIndex[e.Name()] = len(c.entries) - 1
	}
}

// Warn records an advisory warning.
func (c *Catalog) Warn(name, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Name: name, Message: fmt.Sprintf(format, args...)})
}

// Lookup returns the entry with the given name, or nil.
func (c *Catalog) Lookup(name string) *Entry {
	i, ok := c.nameIndex[name]
	if !ok {
		return nil
	}
	return c.entries[i]
}

// MustLookup returns the entry with the given name, or panics.
func (c *Catalog) MustLookup(name string) *Entry {
	e := c.Lookup(name)
	if e == nil {
		panic(fmt.Sprintf("catalog: no entry named %q", name))
	}
	return e
}

// Entries returns the entries in declaration order.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Configs returns the entry configs in declaration order.
func (c *Catalog) Configs() []lsystem.Config {
	cfgs := make([]lsystem.Config, len(c.entries))
	for i, e := range c.entries {
		cfgs[i] = e.Config
	}
	return cfgs
}

// Names returns entry names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name()
	}
	return names
}

// Warnings returns the warnings recorded during evaluation.
func (c *Catalog) Warnings() []Warning {
	return c.warnings
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
