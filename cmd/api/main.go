package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"crush-calc/internal/config"
	"crush-calc/internal/observability"
	"crush-calc/internal/server"
	"crush-calc/internal/session"
	"crush-calc/internal/version"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(observability.LoggerConfig{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Log export
	if cfg.OTelLogs {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			panic(err)
		}
		defer logShutdown(ctx)
	}

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Sessions
	comments, err := initCommentary(ctx, cfg)
	if err != nil {
		panic(err)
	}
	store := session.NewStore(comments, session.StoreConfig{
		TTL:               cfg.SessionTTL,
		MaxSessions:       cfg.MaxSessions,
		CommentaryTimeout: cfg.CommentaryTimeout,
	}, observability.Logger.Named("session"))
	defer store.Close()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go store.Run(sweepCtx)

	// Router
	router := server.NewRouter(session.NewHandler(store))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Closing the sessions ends their event streams, which Shutdown would
	// otherwise wait on.
	srv.RegisterOnShutdown(store.Close)

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("version", version.Version),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("server shutdown", zap.Error(err))
	}
}
