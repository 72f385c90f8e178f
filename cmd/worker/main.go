package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"qhse/qcsync/internal/worker"
	"qhse/qcsync/pkg/config"
	"qhse/qcsync/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/worker.yaml", "path to the config file")
)

func main() {
	flag.Parse()

	log.Println("========================================")
	log.Println("  QCSYNC Worker Starting...")
	log.Println("========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	log.Printf("Config loaded: %s, env: %s, log_level: %s\n", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	mgr, err := worker.NewManagerInstance(cfg, zapLogger)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}

	go func() {
		if err := mgr.Start(); err != nil {
			log.Fatalf("Manager start failed: %v", err)
		}
	}()

	// Block until SIGINT/SIGTERM, then drain gracefully.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal: %v, shutting down...\n", sig)

	mgr.Shutdown()
	log.Println("Worker exited")
}
