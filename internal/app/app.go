package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/savlagood/friendgraph/internal/config"
	"github.com/savlagood/friendgraph/internal/handlers"
	"github.com/savlagood/friendgraph/internal/httpserver"
	"github.com/savlagood/friendgraph/internal/logging"
	"github.com/savlagood/friendgraph/internal/middleware"
)

// Run bootstraps the friendgraph service.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, seed, or export")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:])
	case "seed":
		return runSeed(ctx, args[1:])
	case "export":
		return runExport(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	return runServer(ctx, cfg, logger)
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	router := handlers.NewRouter(buildDependencies(store))
	handler := middleware.RequestLogger(logger)(middleware.RequestTimeout(cfg.RequestTimeout)(router))

	srv := httpserver.New(cfg.AppPort, handler)

	listener, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr(), err)
	}

	logger.Info("starting http server", "addr", listener.Addr().String(), "store", cfg.Store)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Serve(listener)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func runExport(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	exporter, err := buildExporter(ctx, store, cfg)
	if err != nil {
		return err
	}

	location, err := exporter.Export(ctx)
	if err != nil {
		return err
	}

	fmt.Println(location)
	return nil
}
