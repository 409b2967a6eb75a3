// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/rest"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/observability"
	"todo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics := observability.NewStoreMetrics(reg)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, storeFactory(metrics), cli.WithMetrics(reg))

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// storeFactory builds the task store selected by cfg.Backend. REST calls
// are recorded in metrics.
func storeFactory(metrics *observability.StoreMetrics) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return newStore(ctx, cfg, metrics)
	}
}

func newStore(ctx context.Context, cfg *config.Config, metrics *observability.StoreMetrics) (service.Store, error) {
	switch cfg.Backend {
	case config.BackendREST:
		client, err := rest.New(ctx, cfg, rest.WithMetrics(metrics))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendGoogle:
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("invalid backend: %q", cfg.Backend)
	}
}
