package signature

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"sigscope/internal/errs"
	sigmodel "sigscope/internal/model/signature"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCallableNotFound is returned for ids the registry does not hold
var ErrCallableNotFound = errors.New("callable not found")

// Entry describes a registered callable
type Entry struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Signature  string `json:"signature"`
	Overridden bool   `json:"overridden"`
}

// Registry is the explicit catalog of callables whose signatures clients ask for by id.
// Overrides set here are attached to the resolver's side table.
type Registry struct {
	resolver  *Resolver
	callables map[uuid.UUID]*sigmodel.Function
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry backed by resolver
func NewRegistry(resolver *Resolver, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		resolver:  resolver,
		callables: make(map[uuid.UUID]*sigmodel.Function),
		logger:    logger,
	}
}

// Register stores a callable and returns its id
func (r *Registry) Register(name, source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", errs.NewInvalidObjectError(source, "callable source must not be empty")
	}

	id := uuid.New()
	fn := &sigmodel.Function{FuncName: name, Text: source}

	r.mu.Lock()
	r.callables[id] = fn
	r.mu.Unlock()

	r.logger.Debug("Registered callable", zap.String("id", id.String()), zap.String("name", name))
	return id.String(), nil
}

// Get returns the callable registered under id
func (r *Registry) Get(id string) (*sigmodel.Function, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.callables[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCallableNotFound, id)
	}
	return fn, nil
}

// Signature resolves the signature of the callable registered under id
func (r *Registry) Signature(id string) (string, error) {
	fn, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return r.resolver.Resolve(fn), nil
}

// SetOverride attaches an explicit signature to the callable registered under id
func (r *Registry) SetOverride(id string, value any) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	// the read lock spans Attach; Remove detaches under the write lock
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.callables[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCallableNotFound, id)
	}
	return r.resolver.Attach(fn, value)
}

// ClearOverride removes an explicit signature so the callable is parsed again
func (r *Registry) ClearOverride(id string) error {
	fn, err := r.Get(id)
	if err != nil {
		return err
	}
	r.resolver.Detach(fn)
	return nil
}

// Remove drops the callable and any override attached to it
func (r *Registry) Remove(id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.callables[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCallableNotFound, id)
	}
	delete(r.callables, key)
	r.resolver.Detach(fn)
	return nil
}

// List returns every registered callable, ordered by name then id
func (r *Registry) List() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.callables))
	fns := make([]*sigmodel.Function, 0, len(r.callables))
	for id, fn := range r.callables {
		entries = append(entries, Entry{ID: id.String(), Name: fn.FuncName})
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for i, fn := range fns {
		_, entries[i].Overridden = r.resolver.override(fn)
		entries[i].Signature = r.resolver.Resolve(fn)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// Len returns the number of registered callables
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callables)
}

func parseID(id string) (uuid.UUID, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errs.NewInvalidPathError("malformed callable id", id)
	}
	return key, nil
}
