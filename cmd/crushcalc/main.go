package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crush-calc/internal/calculator"
	"crush-calc/internal/commentary"
	"crush-calc/internal/config"
	"crush-calc/internal/observability"
)

var logLevel = "warn"

func setupLogger() error {
	return observability.InitLogger(observability.LoggerConfig{
		Level:       logLevel,
		Development: true,
	})
}

func handleCmdError(err error) {
	if errors.Is(err, calculator.ErrUnknownKey) {
		fmt.Fprintln(os.Stderr, "\nKeys are 0-9 . + - * / % AC DEL =")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crushcalc",
		Short: "crushcalc is a calculator that flirts back",
		Long: `crushcalc is a four-function calculator that comments on your math.

Set GEMINI_API_KEY (or ANTHROPIC_API_KEY) for live comments; without a key
the calculator still works and shows fixed lines.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			observability.SyncLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (debug, info, warn, error)")

	cmd.AddCommand(
		NewReplCommand(),
		NewEvalCommand(),
		NewVersionCommand(),
	)

	return cmd
}

// newCommentary loads provider settings from the environment (and .env).
func newCommentary(ctx context.Context) (*commentary.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.Logger.Named("commentary")
	provider, err := commentary.NewProvider(ctx, cfg.Commentary(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up commentary: %w", err)
	}

	svc := commentary.NewService(provider, logger)
	if !svc.Configured() {
		logger.Debug("no commentary provider configured")
	} else {
		logger.Debug("commentary providers configured", zap.Strings("providers", cfg.Commentary().Providers()))
	}

	return svc, cfg, nil
}
