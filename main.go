package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cinematix/config"
	"cinematix/di"
)

func main() {
	// Missing .env is fine; config falls back to process env and defaults.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize container", zap.Error(err))
	}

	container.TodayService.Start()
	defer container.TodayService.Stop()

	if err := container.CinematixHttpServer.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
