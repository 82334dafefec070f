package signature

import (
	"fmt"
	"reflect"
	"sync"

	"sigscope/internal/errs"
	sigmodel "sigscope/internal/model/signature"
)

// OverrideTable is the identity-keyed side table of explicit signatures.
// Only callables whose dynamic value is comparable (pointers, plain structs) can be keyed;
// a struct holding a slice behind an interface field is not.
type OverrideTable struct {
	entries map[sigmodel.Callable]string
	mu      sync.RWMutex
}

// NewOverrideTable creates an empty override table
func NewOverrideTable() *OverrideTable {
	return &OverrideTable{
		entries: make(map[sigmodel.Callable]string),
	}
}

// Set stores the string form of value as the signature of c
func (t *OverrideTable) Set(c sigmodel.Callable, value any) error {
	if !identifiable(c) {
		return errs.NewInvalidObjectError(c, "callable has no identity to attach a signature to")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[c] = overrideString(value)
	return nil
}

// Get returns the override attached to c, if any
func (t *OverrideTable) Get(c sigmodel.Callable) (string, bool) {
	if !identifiable(c) {
		return "", false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	value, ok := t.entries[c]
	return value, ok
}

// Delete removes the override attached to c
func (t *OverrideTable) Delete(c sigmodel.Callable) {
	if !identifiable(c) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, c)
}

// Len returns the number of attached overrides
func (t *OverrideTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func identifiable(c sigmodel.Callable) bool {
	if c == nil {
		return false
	}
	return reflect.ValueOf(c).Comparable()
}

func overrideString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
