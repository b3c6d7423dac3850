package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/providervault/ai-service/internal/bootstrap"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	"github.com/providervault/ai-service/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(connect)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// connect loads configuration and wires the service graph. Logs go to stderr
// so stdout carries only JSON results.
func connect(ctx context.Context) (*backend, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	observability.InitLoggerWithOutput(cfg.OTEL.ServiceName+"-cli", cfg.Server.Env, os.Stderr)

	app, err := bootstrap.New(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return &backend{assistant: app.Assistant, network: app.Network}, func() { app.Close() }, nil
}
