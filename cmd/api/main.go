package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metroview.org/internal/app"
	"metroview.org/internal/appconf"
	"metroview.org/internal/logging"
	"metroview.org/internal/network"
	"metroview.org/internal/restapi"
	"metroview.org/internal/routing"
	"metroview.org/internal/webui"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	form, err := routing.ParseRequestForm(cfg.RequestForm)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	manager, err := network.InitManager(ctx, network.Sources{
		NetworkURL:      cfg.NetworkSource,
		PositionsURL:    cfg.PositionsSource,
		RefreshInterval: cfg.RefreshInterval,
	}, httpClient, logger)
	if err != nil {
		// The server still starts; the graph stays empty until a reload succeeds.
		logging.LogError(logger, "failed to load network", err,
			slog.String("network", cfg.NetworkSource))
	}
	defer manager.Shutdown()

	application := &app.Application{
		Config:         cfg,
		Logger:         logger,
		NetworkManager: manager,
		RouteService: routing.NewClient(routing.Config{
			BaseURL:      cfg.RouteServiceURL,
			ShortestPath: cfg.ShortestPathPath,
			Forest:       cfg.ForestPath,
			Form:         form,
		}, httpClient, logger),
	}

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	webUI := &webui.WebUI{Application: application, Sessions: api.Sessions()}

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     api.Handler(webUI.SetWebUIRoutes),
		IdleTimeout: time.Minute,
		ReadTimeout: 5 * time.Second,
		// Event streams stay open for the life of a session.
		WriteTimeout: 0,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env.String()),
			slog.Bool("api_keys", application.APIKeysEnabled()))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close sessions first so that open event streams end and Shutdown does
	// not wait on them.
	api.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
