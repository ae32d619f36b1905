package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/app"
	"github.com/Freeeeeet/course_app/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, "admin")
	defer logger.Sync()

	ctx := context.Background()
	storage, err := app.OpenStorage(ctx, cfg, logger.Named("storage"))
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}

	cli := newCommandLine(storage, os.Stdout, logger)
	err = cli.run(ctx, os.Args)
	storage.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("Command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
