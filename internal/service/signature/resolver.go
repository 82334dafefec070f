package signature

import (
	"fmt"
	"strings"

	sigmodel "sigscope/internal/model/signature"

	"go.uber.org/zap"
)

// Resolver derives canonical signatures from callable source text.
//
// Resolution order: an override carried by the callable itself (Overrider), then an
// override attached through Attach, then extraction. Extraction strips comments from the
// whole source, classifies it as class or function shape, asks each extractor in turn
// for the name and parameter span, and normalizes whitespace in the result.
//
// A Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	extractors []Extractor
	overrides  *OverrideTable
	logger     *zap.Logger
}

// NewResolver creates a resolver trying extractors in order. A scan extractor is always
// appended last unless one is already in the chain.
func NewResolver(logger *zap.Logger, extractors ...Extractor) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	chain := make([]Extractor, 0, len(extractors)+1)
	hasScan := false
	for _, extractor := range extractors {
		if extractor == nil {
			continue
		}
		if extractor.Name() == ExtractorScan {
			hasScan = true
		}
		chain = append(chain, extractor)
	}
	if !hasScan {
		chain = append(chain, NewScanExtractor())
	}

	return &Resolver{
		extractors: chain,
		overrides:  NewOverrideTable(),
		logger:     logger,
	}
}

// Extractors returns the names of the extractors in chain order
func (r *Resolver) Extractors() []string {
	names := make([]string, len(r.extractors))
	for i, extractor := range r.extractors {
		names[i] = extractor.Name()
	}
	return names
}

// Resolve returns the signature of c. It never fails: unrecognized source degrades to
// the best partial signature, and a nil callable resolves to "".
func (r *Resolver) Resolve(c sigmodel.Callable) string {
	if c == nil {
		return ""
	}
	if value, ok := r.override(c); ok {
		return value
	}
	return r.derive(c)
}

// Attach sets an explicit signature for c; value is stored in its string form
func (r *Resolver) Attach(c sigmodel.Callable, value any) error {
	return r.overrides.Set(c, value)
}

// Detach removes a signature set with Attach
func (r *Resolver) Detach(c sigmodel.Callable) {
	r.overrides.Delete(c)
}

// Bind wraps c so callers can ask it for its own signature
func (r *Resolver) Bind(c sigmodel.Callable) *Bound {
	return &Bound{callable: c, resolver: r}
}

func (r *Resolver) override(c sigmodel.Callable) (string, bool) {
	if o, ok := c.(sigmodel.Overrider); ok {
		if value, ok := o.SignatureOverride(); ok {
			return value, true
		}
	}
	return r.overrides.Get(c)
}

func (r *Resolver) derive(c sigmodel.Callable) string {
	cleaned := StripComments(c.Source())
	shape := Classify(cleaned)

	parts, err := r.extract(cleaned, shape)
	if parts.Name == "" {
		if named, ok := c.(sigmodel.Named); ok {
			parts.Name = named.Name()
		}
	}
	parts.Name = NormalizeWhitespace(parts.Name)
	parts.Params = NormalizeWhitespace(parts.Params)

	sig := parts.Signature()
	if err != nil {
		r.logger.Debug("Unrecognized callable source, returning partial signature",
			zap.String("shape", string(shape)),
			zap.String("signature", sig),
			zap.Error(err))
	}
	return strings.TrimSpace(sig)
}

// extract runs the chain and returns the first complete result, or the most
// informative partial one together with the last error
func (r *Resolver) extract(cleaned string, shape sigmodel.Shape) (sigmodel.Parts, error) {
	best := sigmodel.Parts{Shape: shape}
	var lastErr error
	for _, extractor := range r.extractors {
		parts, err := r.safeExtract(extractor, cleaned, shape)
		if err == nil {
			return parts, nil
		}
		r.logger.Debug("Extractor failed, trying next",
			zap.String("extractor", extractor.Name()),
			zap.Error(err))
		lastErr = err
		if best.Name == "" && parts.Name != "" {
			best = parts
		}
	}
	best.Shape = shape
	return best, lastErr
}

func (r *Resolver) safeExtract(extractor Extractor, cleaned string, shape sigmodel.Shape) (parts sigmodel.Parts, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Extractor panicked",
				zap.String("extractor", extractor.Name()),
				zap.Any("panic", p))
			parts = sigmodel.Parts{Shape: shape}
			err = fmt.Errorf("%s extractor panicked: %v", extractor.Name(), p)
		}
	}()
	return extractor.Extract(cleaned, shape)
}

// Bound is a callable paired with the resolver that describes it
type Bound struct {
	callable sigmodel.Callable
	resolver *Resolver
}

// Signature resolves the bound callable's signature on every call
func (b *Bound) Signature() string {
	return b.resolver.Resolve(b.callable)
}

// Callable returns the wrapped callable
func (b *Bound) Callable() sigmodel.Callable {
	return b.callable
}

func (b *Bound) String() string {
	return b.Signature()
}
