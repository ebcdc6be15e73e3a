package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/utang/internal/auth"
	"github.com/MrJamesThe3rd/utang/internal/config"
	utangHttp "github.com/MrJamesThe3rd/utang/internal/http"
	ledgerHandler "github.com/MrJamesThe3rd/utang/internal/http/ledger"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/utang/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	repo, closeRepo, err := ledgerStore.Open(cfg)
	if err != nil {
		slog.Error("failed to open ledger storage", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	ledgerService := ledger.NewService(repo)

	router := utangHttp.New(
		ledgerHandler.NewHandler(ledgerService),
		auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer),
		utangHttp.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Health:         ledgerService.Ping,
		},
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "driver", cfg.DB.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		slog.Info("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler).With("app", cfg.App.Name))
}
