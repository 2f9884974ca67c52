package service

import (
	"context"
	"sync/atomic"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultCollectorConcurrency = 8

// RegistryCollector removes dead tokens from the registry. Removals run
// concurrently and a failed removal never blocks the rest; the token simply
// stays until a later fan-out flags it again.
type RegistryCollector struct {
	registry    repository.TokenRegistry
	logger      *zap.Logger
	concurrency int
}

func NewRegistryCollector(registry repository.TokenRegistry, concurrency int, logger *zap.Logger) (*RegistryCollector, error) {
	if registry == nil {
		return nil, errNilRegistry
	}
	if concurrency < 1 {
		concurrency = defaultCollectorConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RegistryCollector{
		registry:    registry,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Collect deletes the given tokens and returns how many removals succeeded.
func (c *RegistryCollector) Collect(ctx context.Context, tokens []string) int {
	if c == nil || len(tokens) == 0 {
		return 0
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var pruned atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	for _, token := range tokens {
		token := token
		g.Go(func() error {
			if err := c.registry.Remove(ctx, token); err != nil {
				c.logger.Warn("failed to prune token, leaving for next fan-out",
					zap.String("token", token),
					zap.Error(err),
				)
				return nil
			}
			pruned.Add(1)
			return nil
		})
	}

	_ = g.Wait()

	return int(pruned.Load())
}
