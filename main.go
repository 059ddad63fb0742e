package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/api"
	"github.com/TWRT/taskdesk/internal/config"
	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/repository"
)

func main() {
	configPath := flag.String("config", os.Getenv("TASKDESK_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logger.New("taskdesk", cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.WithError(err).Fatal("failed to build logger")
	}

	db, err := repository.InitDB(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	log.WithFields(logrus.Fields{
		"driver": cfg.Database.Driver,
		"path":   cfg.Database.Path,
	}).Info("database initialized")

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.SetupRouter(db, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
