package commentary

import (
	"context"

	"go.uber.org/zap"
)

// Fixed pairs shown when no provider is configured or the provider fails.
var (
	NoKeyEquation = Comment{Message: "I need an API key to flirt properly! 😉", Emoji: "🤐", Fallback: true}
	NoKeyPickup   = Comment{Message: "I'd ask for your number, but I need an API key first.", Emoji: "😉", Fallback: true}

	FailedEquation = Comment{Message: "You're so hot I forgot how to do math.", Emoji: "🔥", Fallback: true}
	FailedPickup   = Comment{Message: "Are you a 90 degree angle? Because you're looking right.", Emoji: "📐", Fallback: true}
)

// Service turns a fallible Provider into a source of comments that never
// fails. A nil provider means no credential is configured.
type Service struct {
	provider Provider
	logger   *zap.Logger
}

// NewService wraps provider, which may be nil.
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// EquationComment reacts to equation = result.
func (s *Service) EquationComment(ctx context.Context, equation, result string) Comment {
	if s.provider == nil {
		return NoKeyEquation
	}

	c, err := s.provider.EquationComment(ctx, equation, result)
	if err != nil {
		s.logger.Warn("commentary: using fallback comment",
			zap.String("kind", "equation"),
			zap.String("equation", equation),
			zap.Error(err),
		)
		return FailedEquation
	}
	return c
}

// PickupLine returns a pick-up line.
func (s *Service) PickupLine(ctx context.Context) Comment {
	if s.provider == nil {
		return NoKeyPickup
	}

	c, err := s.provider.PickupLine(ctx)
	if err != nil {
		s.logger.Warn("commentary: using fallback comment",
			zap.String("kind", "pickup_line"),
			zap.Error(err),
		)
		return FailedPickup
	}
	return c
}
