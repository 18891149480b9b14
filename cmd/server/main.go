// Package main is the entry point for the ad placement demo server
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	adlconfig "github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/config"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

func main() {
	// A .env file is optional; environment variables win either way
	_ = godotenv.Load()

	// Initialize structured logger
	logger.Init(logger.DefaultConfig())
	log := logger.Log

	cfg, err := ParseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), adlconfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
}
