package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daap14/questadmin/internal/api"
	"github.com/daap14/questadmin/internal/api/handler"
	"github.com/daap14/questadmin/internal/apiclient"
	"github.com/daap14/questadmin/internal/auth"
	"github.com/daap14/questadmin/internal/config"
	"github.com/daap14/questadmin/internal/dashboard"
	"github.com/daap14/questadmin/internal/level"
	"github.com/daap14/questadmin/internal/storage"
	"github.com/daap14/questadmin/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	endpoints, err := config.LoadEndpoints(cfg.EndpointsFile)
	if err != nil {
		slog.Error("failed to load endpoint table", "file", cfg.EndpointsFile, "error", err)
		os.Exit(1)
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	store, closeStore, err := storage.Open(baseCtx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithMiddleware(apiclient.RequestID(), apiclient.Logging()),
		apiclient.WithBearer(apiclient.TokenSourceFunc(func(ctx context.Context) (string, error) {
			return storage.Lookup(ctx, store, storage.TokenKey)
		})),
	)
	if err != nil {
		slog.Error("invalid API base URL", "url", cfg.APIBaseURL, "error", err)
		os.Exit(1)
	}

	sessions := auth.NewService(auth.NewHTTPGateway(client, endpoints), store, auth.NavigatorFunc(logNavigation))
	board := dashboard.NewQuestionStatsView(level.NewRepository(client, endpoints), cfg.PollInterval)
	roster := dashboard.NewTeamsView(team.NewRepository(client, endpoints), handler.Notices{})

	go sessions.CheckAuth(baseCtx)

	router := api.NewRouter(api.RouterDeps{
		Base:     baseCtx,
		Sessions: sessions,
		Board:    board,
		Roster:   roster,
		Version:  cfg.Version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting questadmin console",
			"port", cfg.Port,
			"version", cfg.Version,
			"api", cfg.APIBaseURL,
			"store", cfg.StoreDriver,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down console", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	board.Unmount()
	cancelBase()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("console stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// logNavigation records where the session service sends the operator. The
// console has no screens of its own; clients follow /session.
func logNavigation(ctx context.Context, to auth.Surface) {
	slog.InfoContext(ctx, "navigate", "surface", string(to))
}
