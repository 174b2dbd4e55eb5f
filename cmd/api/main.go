// cmd/api/main.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/BrownBean2017/SpotShare-MVP/internal/adapter/cache"
	"github.com/BrownBean2017/SpotShare-MVP/internal/adapter/events"
	"github.com/BrownBean2017/SpotShare-MVP/internal/adapter/gemini"
	"github.com/BrownBean2017/SpotShare-MVP/internal/config"
	"github.com/BrownBean2017/SpotShare-MVP/internal/server"
	"github.com/BrownBean2017/SpotShare-MVP/internal/server/handlers"
	assistService "github.com/BrownBean2017/SpotShare-MVP/internal/service/assist"
	geoService "github.com/BrownBean2017/SpotShare-MVP/internal/service/geo"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize the model client
	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey: cfg.AI.APIKey,
		Model:  cfg.AI.Model,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	if !generator.Configured() {
		log.Println("No AI API key configured; AI features will return fallbacks")
	}

	// Optional response cache
	var responseCache assistService.Cache
	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Redis unavailable, AI responses will not be cached: %v", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
		}
	}

	// Initialize services
	assistant := assistService.NewService(
		assistService.NewCachingGenerator(generator, responseCache, assistService.CachingConfig{
			TTL:         cfg.Cache.TTL,
			CallTimeout: cfg.AI.RequestTimeout,
		}),
		assistService.ServiceConfig{
			RequestTimeout: cfg.AI.RequestTimeout,
		},
	)

	locator := geoService.NewLocator(geoService.ReferencePoint, geoService.DefaultSpread, cfg.Listing.LocationSeed)

	market := marketplace.NewService(
		marketplace.UUIDGenerator{},
		locator,
		marketplace.Config{
			BookingDuration: cfg.Listing.BookingDuration,
		},
	)

	// Event fan-out: WebSocket hub plus optional NATS
	hub := handlers.NewHub(cfg.NATS.SubjectPrefix, handlers.DefaultWebSocketConfig())
	publishers := events.Multi{hub}

	if cfg.NATS.URL != "" {
		natsConn, err := events.ConnectNATS(events.NATSConfig{
			URL:            cfg.NATS.URL,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectTimeout: cfg.NATS.ConnectTimeout,
		})
		if err != nil {
			log.Printf("NATS unavailable, events stay local: %v", err)
		} else {
			defer natsConn.Close()
			publishers = append(publishers, natsConn)
		}
	}

	// Initialize session manager
	sessions := session.NewManager(
		session.Dependencies{
			Market:    market,
			Assistant: assistant,
			Emitter:   events.NewEmitter(publishers, cfg.NATS.SubjectPrefix),
		},
		session.ManagerConfig{
			IdleTTL:       cfg.Session.IdleTTL,
			SweepInterval: cfg.Session.SweepInterval,
		},
	)

	// Initialize HTTP server
	httpServer, err := server.NewServer(cfg.Server, sessions, hub)
	if err != nil {
		log.Fatalf("Failed to initialize HTTP server: %v", err)
	}

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Disconnect WebSocket clients
	hub.Close()

	// Stop session manager
	if err := sessions.Stop(shutdownCtx); err != nil {
		log.Printf("Session manager shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
