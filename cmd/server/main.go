package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "github.com/moonandjupiter/consign-tracker/internal/adapters/web"
	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/config"
	"github.com/moonandjupiter/consign-tracker/internal/session"
	"github.com/moonandjupiter/consign-tracker/internal/source"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("TRACKER_CONFIG"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := source.Open(ctx, cfg.Source)
	if err != nil {
		log.Fatalf("record source: %v", err)
	}
	defer closeSource()

	svc := app.NewAppService(src, log)

	sessions := session.NewStore(svc, cfg.Server.SessionTTL, log)
	sessions.StartPurge(ctx, time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           webAdapter.NewHandler(svc, sessions, log, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{"port": cfg.Server.Port, "source": src.Name()}).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	log.Info("server stopped")
}
