package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jobtracker/jobtracker-go/internal/config"
	"github.com/jobtracker/jobtracker-go/internal/crypto"
	"github.com/jobtracker/jobtracker-go/internal/handler"
	"github.com/jobtracker/jobtracker-go/internal/repository"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	if cfg.IsProduction() {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewDB(dbCtx, cfg.DBDriver, cfg.DatabaseDSN)
	dbCancel()
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens, err := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("token issuer", "error", err)
		os.Exit(1)
	}

	services := handler.Services{
		Auth:   service.NewAuthService(db, repository.NewUserRepository(db), tokens, cfg.AdminEmail),
		Jobs:   service.NewJobService(repository.NewJobRepository(db)),
		Skills: service.NewSkillService(repository.NewSkillRepository(db)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := handler.NewRouter(ctx, services, handler.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
