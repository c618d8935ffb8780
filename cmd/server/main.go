package main

import (
	"context"
	"log"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/api"
	"github.com/hrcadm/sleeptracker/internal/config"
	"github.com/hrcadm/sleeptracker/internal/storage"
	"github.com/hrcadm/sleeptracker/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	store, err := storage.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	tokens, err := token.NewService(cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		logger.Fatalf("failed to init token service: %v", err)
	}

	app := api.NewApp(cfg, logger, store, tokens)
	r := api.Router(app)

	logger.Infof("Sleep Tracker API v1 starting on %s", cfg.Addr())
	logger.Infof("Environment: %s, storage backend: %s", cfg.Env, cfg.StorageBackend)
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
