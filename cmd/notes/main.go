package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"notes-client/internal/app"
	"notes-client/internal/backend"
	"notes-client/internal/cli"
	"notes-client/internal/config"
	"notes-client/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewFileLogger(cfg.LogFile, cfg.LogLevel, cfg.LogMaxSizeMB)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	client := backend.NewHTTPClient(cfg.APIURL, cfg.HTTPTimeout, nil, logger)
	router := app.NewRouter(client, logger)
	defer router.Close()

	path := cfg.StartPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	logger.Info("notes client starting", zap.String("api_url", cfg.APIURL), zap.String("path", path))
	shell := cli.NewShell(router, os.Stdin, os.Stdout, logger)
	if err := shell.Run(ctx, path); err != nil && ctx.Err() == nil {
		logger.Error("shell stopped", zap.Error(err))
		log.Fatal(err)
	}
}
