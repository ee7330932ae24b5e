package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"metrics-intake/internal/config"
	"metrics-intake/internal/domain"
	"metrics-intake/internal/latency"
	"metrics-intake/internal/repository"
	"metrics-intake/internal/router"
	"metrics-intake/internal/util"
)

func LoggerInitialize(cfg config.LoggerConfig) (util.IntakeLogger, error) {

	var intakeLogger util.IntakeLogger

	util.SetLoggerPath(cfg.Folder)
	util.CheckAndCreateLogFolder(cfg.Folder)
	util.SetCommonLoggerAttributes(cfg.Level)

	if err := intakeLogger.Init(cfg.File, false); err != nil {
		fmt.Println("Failed to initialize logger:", err)
		return util.IntakeLogger{}, err
	}

	intakeLogger.LogEvent(util.LOG_LEVEL_INFO, "Service started")

	currentTime := time.Now().Format(time.RFC3339)

	fmt.Fprintf(os.Stderr, "\n%s: Metrics intake agent started \n", currentTime)

	return intakeLogger, nil

}

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := LoggerInitialize(cfg.Logger)
	if err != nil {
		fmt.Println("Error while initializing the logger..", err)
		return
	}

	var metricStore domain.MetricStore

	switch cfg.Storage.Backend {
	case "memory":
		metricStore = repository.NewMemoryStore()
	case "sqlite":
		metricStore = repository.NewSQLiteStore(cfg.Storage.SQLitePath)
	default:
		log.Fatalf("Unknown storage backend: %s", cfg.Storage.Backend)
	}

	if err := metricStore.Init(); err != nil {
		log.Fatalf("Failed to initialize metric store: %v", err)
	}
	defer metricStore.Close()

	tracker := latency.NewTracker(cfg.Logger.MaxSamples)

	router.Run(cfg.App.Addr(), cfg.App.RequestTimeout(), metricStore, tracker, &logger)
}
