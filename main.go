package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/importer"
	"github.com/example/phrasebot/internal/scheduler"
	"github.com/example/phrasebot/internal/server"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := database.Connect(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Seed or refresh the phrase catalog when a file is provided
	if path := os.Getenv("IMPORT_FILE"); path != "" {
		cfg := importer.DefaultImportConfig()
		cfg.FilePath = path
		result, err := importer.ImportPhrases(cfg)
		if err != nil {
			logger.Fatal("phrase import failed", zap.String("file", path), zap.Error(err))
		}
		logger.Info("phrase import finished",
			zap.String("file", path),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
			zap.Int("errors", len(result.Errors)))
	}

	srv := server.New(server.DefaultConfig(), logger)

	sched := scheduler.New(srv.Sessions(), logger)
	sched.Start()
	defer sched.Stop()

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		logger.Info("received signal", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}

		close(done)
	}()

	logger.Info("server started, press Ctrl+C to stop")
	if err := srv.Listen(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", zap.Error(err))
	}

	<-done
	logger.Info("server stopped successfully")
}
