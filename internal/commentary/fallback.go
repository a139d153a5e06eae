package commentary

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// fallbackProvider calls primary first and, if that fails, secondary.
type fallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *zap.Logger
}

// NewFallbackProvider returns a Provider that tries primary and falls back to
// secondary on error. Either may be nil; if both are nil, nil is returned so
// that Service treats the chain as unconfigured.
func NewFallbackProvider(primary, secondary Provider, logger *zap.Logger) Provider {
	switch {
	case primary == nil && secondary == nil:
		return nil
	case primary == nil:
		return secondary
	case secondary == nil:
		return primary
	}
	return &fallbackProvider{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *fallbackProvider) EquationComment(ctx context.Context, equation, result string) (Comment, error) {
	c, err := f.primary.EquationComment(ctx, equation, result)
	if err == nil {
		return c, nil
	}
	f.logger.Warn("commentary: primary provider failed, trying secondary",
		zap.String("kind", "equation"),
		zap.Error(err),
	)

	c, err2 := f.secondary.EquationComment(ctx, equation, result)
	if err2 != nil {
		return Comment{}, fmt.Errorf("commentary: both providers failed: primary: %v: secondary: %w", err, err2)
	}
	return c, nil
}

func (f *fallbackProvider) PickupLine(ctx context.Context) (Comment, error) {
	c, err := f.primary.PickupLine(ctx)
	if err == nil {
		return c, nil
	}
	f.logger.Warn("commentary: primary provider failed, trying secondary",
		zap.String("kind", "pickup_line"),
		zap.Error(err),
	)

	c, err2 := f.secondary.PickupLine(ctx)
	if err2 != nil {
		return Comment{}, fmt.Errorf("commentary: both providers failed: primary: %v: secondary: %w", err, err2)
	}
	return c, nil
}
