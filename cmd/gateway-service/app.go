package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ordergate/internal/auth"
	"ordergate/internal/config"
	"ordergate/internal/constants"
	"ordergate/internal/filter"
	"ordergate/internal/gateway"
	"ordergate/internal/logger"
	"ordergate/pkg/metrics"
)

type App struct {
	config *config.Config
	logger logger.Logger
	server *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	handler, err := a.buildHandler()
	if err != nil {
		return fmt.Errorf("failed to build gateway handler: %w", err)
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  a.config.Server.ReadTimeoutSeconds,
		WriteTimeout: a.config.Server.WriteTimeoutSeconds,
	}
	return nil
}

func (a *App) buildHandler() (http.Handler, error) {
	registry := filter.NewRegistry()
	registry.MustRegister(filter.NewLoggingFilter(a.logger))
	registry.MustRegister(filter.NewAuthFilter(
		auth.NewJWTVerifier(a.config.Auth.Secret, a.config.Auth.Issuer),
		a.logger,
		a.config.Auth,
	))
	registry.MustRegister(filter.NewRateLimitFilter())

	routes, err := gateway.BuildHandler(a.config.Gateway, registry, a.logger)
	if err != nil {
		return nil, err
	}

	metrics.RegisterGatewayMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("/gateway/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"healthy"}`)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", routes)

	// Recovery wraps everything so a panicking filter cannot kill the listener.
	return gateway.Recovery(a.logger)(mux), nil
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.InfowCtx(ctx, "Gateway listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.logger.InfowCtx(ctx, "Gateway exited successfully")
	return nil
}
