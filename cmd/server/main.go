package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrv-service/internal/cache"
	"hrv-service/internal/config"
	"hrv-service/internal/handlers"
	"hrv-service/internal/hrv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("Starting HRV Analysis Service...")

	// Конфигурация из environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	detector, err := cfg.Detector()
	if err != nil {
		log.Fatalf("Invalid peak detector: %v", err)
	}
	estimator := hrv.NewEstimator(detector)
	log.Printf("Peak detector: %s (threshold: %.2f, min distance: %d)\n",
		detector.Name(), cfg.PeakThreshold, cfg.PeakMinDistance)

	// Кэш опционален: без Redis сервис считает каждый запрос заново
	var resultCache handlers.ResultCache
	if cfg.CacheEnabled() {
		redisCache, err := cache.NewRedisCache(
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			cfg.ResultTTL,
		)
		if err != nil {
			log.Printf("Redis unavailable, running without result cache: %v", err)
		} else {
			defer redisCache.Close()
			resultCache = redisCache
			log.Println("Connected to Redis")
		}
	} else {
		log.Println("Result cache disabled")
	}

	handler := handlers.NewHandler(estimator, resultCache, cfg.Delimiter, cfg.MaxUploadBytes)

	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/", handler.Root)
	mux.HandleFunc("/analyze", handler.Analyze)
	mux.HandleFunc("/health", handler.HealthCheck)
	mux.HandleFunc("/stats", handler.GetStats)

	// Prometheus metrics endpoint
	mux.Handle("/prometheus", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server listening on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}

	log.Println("Server stopped gracefully")
}
