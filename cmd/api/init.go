package main

import (
	"context"

	"go.uber.org/zap"

	"crush-calc/internal/commentary"
	"crush-calc/internal/config"
	"crush-calc/internal/observability"
	"crush-calc/internal/session"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	if err := session.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// initCommentary builds the never-failing comment source from the configured
// provider keys.
func initCommentary(ctx context.Context, cfg *config.Config) (*commentary.Service, error) {
	settings := cfg.Commentary()
	logger := observability.Logger.Named("commentary")

	provider, err := commentary.NewProvider(ctx, settings, logger)
	if err != nil {
		return nil, err
	}
	svc := commentary.NewService(provider, logger)

	if !svc.Configured() {
		logger.Warn("no commentary provider configured, using fixed comments")
	} else {
		logger.Info("commentary providers configured", zap.Strings("providers", settings.Providers()))
	}

	return svc, nil
}
