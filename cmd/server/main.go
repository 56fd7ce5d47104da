package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tokoyanto/nota/internal/config"
	"github.com/tokoyanto/nota/internal/db"
	"github.com/tokoyanto/nota/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err == nil {
			return logger
		}
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	conn, err := db.Connect(cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		logger.Info("migrations completed; exiting as requested")
		return
	}

	logger.Info("starting server", zap.String("env", cfg.Env), zap.String("port", cfg.Port))
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(conn, cfg, logger),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
