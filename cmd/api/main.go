// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/domain/catalog"
	"github.com/your-org/swiftcart/internal/domain/pricing"
	"github.com/your-org/swiftcart/internal/infrastructure/database/redis"
	"github.com/your-org/swiftcart/internal/interfaces/http"
	"github.com/your-org/swiftcart/internal/pkg/notify"
	"github.com/your-org/swiftcart/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Structured logger for storefront events
	logger := newLogger(cfg)
	notifier := notify.NewLogNotifier(logger)

	// Load the catalog; either fetch may fail without being fatal
	catalogCache := catalog.NewCache(catalog.NewClient(cfg), notifier)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Catalog.RequestTimeout)
	if err := catalogCache.Load(loadCtx); err != nil {
		log.Printf("Warning: catalog load incomplete: %v", err)
	}
	cancelLoad()

	// Application root owns all session state
	calculator := pricing.NewCalculator(cfg)
	sessions := session.NewManager(cfg, redisClient.GetClient(), calculator, notifier, logger)

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, redisClient.GetClient(), catalogCache, sessions)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
