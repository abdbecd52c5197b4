package lifecycle

import (
	"fmt"
	"reflect"
)

// Candidate is a scan result that has not been instantiated yet.
type Candidate struct {
	Name string
	New  Constructor
}

// Scanner enumerates the adapters located in a namespace. The enumeration order
// must be deterministic; it decides the order of equal priorities.
type Scanner interface {
	Scan(naming Naming) []Candidate
}

// CatalogScanner scans a Catalog.
type CatalogScanner struct {
	Catalog *Catalog
}

// NewCatalogScanner creates a scanner over catalog, or DefaultCatalog when nil.
func NewCatalogScanner(catalog *Catalog) *CatalogScanner {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &CatalogScanner{Catalog: catalog}
}

// Scan returns the catalog entries whose names match naming, in name order.
func (s *CatalogScanner) Scan(naming Naming) []Candidate {
	var candidates []Candidate
	for _, entry := range s.Catalog.Entries() {
		if !naming.Matches(entry.Name) {
			continue
		}
		candidates = append(candidates, Candidate{Name: entry.Name, New: entry.New})
	}
	return candidates
}

// instantiate builds a candidate and checks it against the contract. Constructor
// panics are turned into an InstantiationError.
func instantiate(c Candidate) (p Participant, err error) {
	if c.New == nil {
		return nil, &InstantiationError{Name: c.Name, Reason: "no constructor"}
	}

	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = &InstantiationError{Name: c.Name, Reason: "constructor panicked", Err: fmt.Errorf("%v", r)}
		}
	}()

	value := c.New()
	if value == nil {
		return nil, &InstantiationError{Name: c.Name, Reason: "constructor returned nil"}
	}
	if isNilValue(value) {
		return nil, &InstantiationError{Name: c.Name, Reason: fmt.Sprintf("constructor returned a nil %T", value)}
	}
	if e, ok := value.(error); ok {
		if _, isParticipant := value.(Participant); !isParticipant {
			return nil, &InstantiationError{Name: c.Name, Reason: "constructor failed", Err: e}
		}
	}

	participant, ok := value.(Participant)
	if !ok {
		return nil, &InstantiationError{Name: c.Name, Reason: fmt.Sprintf("%T does not implement Participant", value)}
	}
	return participant, nil
}

// isNilValue reports whether v wraps a nil pointer, map, slice, func or channel.
func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
