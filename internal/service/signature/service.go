package signature

import (
	"fmt"

	"sigscope/internal/config"

	"go.uber.org/zap"
)

// Service bundles the resolver and the callable registry built from configuration
type Service struct {
	Resolver *Resolver
	Registry *Registry
}

// NewService builds the extractor chain named in cfg and the registry on top of it
func NewService(cfg config.SignatureConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	extractors, err := NewExtractorRegistry().Build(cfg.Extractors, cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor chain: %w", err)
	}

	resolver := NewResolver(logger, extractors...)
	logger.Info("Signature resolver initialized",
		zap.Strings("extractors", resolver.Extractors()),
		zap.String("language", cfg.Language))

	return &Service{
		Resolver: resolver,
		Registry: NewRegistry(resolver, logger),
	}, nil
}
