package lifecycle

import (
	"fmt"
	"sort"
)

// Constructor builds one candidate participant. Generated adapters provide their
// no-argument constructor through it.
type Constructor func() any

// Entry is a named constructor held by a Catalog.
type Entry struct {
	Name string
	New  Constructor
}

// Catalog is the set of compiled-in adapter constructors, keyed by proxy full name.
// Generated adapters add themselves to DefaultCatalog from an init function.
type Catalog struct {
	entries map[string]Constructor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]Constructor),
	}
}

// DefaultCatalog is the namespace populated by generated adapters.
var DefaultCatalog = NewCatalog()

// Provide adds a constructor under name. Providing the same name twice or a nil
// constructor panics, the same way duplicate driver registration does.
func (c *Catalog) Provide(name string, ctor Constructor) {
	if ctor == nil {
		panic("lifecycle: Provide constructor is nil for " + name)
	}
	if _, exists := c.entries[name]; exists {
		panic(fmt.Sprintf("lifecycle: Provide called twice for %s", name))
	}
	c.entries[name] = ctor
}

// Entries returns every entry sorted by name.
func (c *Catalog) Entries() []Entry {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Entry, 0, len(names))
	for _, name := range names {
		result = append(result, Entry{Name: name, New: c.entries[name]})
	}
	return result
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
