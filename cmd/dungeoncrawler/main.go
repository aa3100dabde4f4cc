// Package main is the entry point for the dungeon crawler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/samdwyer/dungeoncrawler/internal/game"
	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/logger"
	"github.com/samdwyer/dungeoncrawler/internal/save"
	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger.Init(logFile)

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx := context.Background()

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load game data")
	}

	// Initialize telemetry before the first level is generated
	sessionID := uuid.New()
	shutdown, err := telemetry.Setup(ctx, sessionID.String())
	if err != nil {
		logger.Log.WithError(err).Warn("Telemetry setup failed, running without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Log.WithError(err).Error("Error shutting down telemetry")
			}
		}()
	}

	store := save.NewStore(cfg.SaveDir)
	session, err := game.Open(ctx, sessionID, cfg, catalog, store)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to start session")
	}

	// Create and run game
	g, err := game.New(cfg, session, store)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize game")
	}

	if err := g.Run(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Game error")
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
// Without an API key the exporter keeps its defaults.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DUNGEONCRAWLER_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_DUNGEONCRAWLER_DATASET")
	if dataset == "" {
		dataset = "dungeoncrawler" // default dataset name
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
