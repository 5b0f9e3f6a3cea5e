package main

import (
	"log"

	"github.com/alkime/scriptcut/internal/config"
	"github.com/alkime/scriptcut/internal/devbackend"
	"github.com/alkime/scriptcut/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logger := logger.SetupLogger(cfg)

	logger.Info("Starting scriptcut dev backend",
		"env", cfg.Env,
		"port", cfg.Port,
		"media_dir", cfg.MediaDir,
		"step_delay", cfg.StepDelay,
		"whisper", cfg.OpenAIAPIKey != "",
	)

	srv := devbackend.New(cfg, logger)
	defer srv.Close()

	if err := devbackend.Run(srv); err != nil {
		logger.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
