package signature

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	sigmodel "sigscope/internal/model/signature"
)

const (
	ExtractorScan       = "scan"
	ExtractorTreeSitter = "treesitter"
)

// ErrUnrecognizedShape is returned by extractors when source matches neither the function nor the class pattern
var ErrUnrecognizedShape = errors.New("unrecognized source shape")

// Extractor derives the name and raw parameter text of a callable from comment-free source
type Extractor interface {
	// Extract returns the parts found in source for the given shape.
	// On error the returned parts may still hold a partial result.
	Extract(source string, shape sigmodel.Shape) (sigmodel.Parts, error)

	// Name returns the name the extractor is registered under
	Name() string
}

// ExtractorFactory builds an extractor for a source language ("javascript" or "typescript")
type ExtractorFactory func(language string) (Extractor, error)

// ExtractorRegistry manages extractor factories by name
type ExtractorRegistry struct {
	factories map[string]ExtractorFactory
	mu        sync.RWMutex
}

// NewExtractorRegistry creates a registry with the built-in extractors registered
func NewExtractorRegistry() *ExtractorRegistry {
	r := &ExtractorRegistry{
		factories: make(map[string]ExtractorFactory),
	}
	r.Register(ExtractorScan, func(string) (Extractor, error) {
		return NewScanExtractor(), nil
	})
	r.Register(ExtractorTreeSitter, func(language string) (Extractor, error) {
		return NewTreeSitterExtractor(language)
	})
	return r
}

// Register adds or replaces the factory for name
func (r *ExtractorRegistry) Register(name string, factory ExtractorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Build instantiates the named extractors in order
func (r *ExtractorRegistry) Build(names []string, language string) ([]Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extractors := make([]Extractor, 0, len(names))
	for _, name := range names {
		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("extractor not found: %s", name)
		}
		extractor, err := factory(language)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s extractor: %w", name, err)
		}
		extractors = append(extractors, extractor)
	}
	return extractors, nil
}

// SupportedExtractors returns the registered extractor names, sorted
func (r *ExtractorRegistry) SupportedExtractors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
