package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cumplia.mx/compliance-gateway/internal/api"
	"cumplia.mx/compliance-gateway/internal/config"
	"cumplia.mx/compliance-gateway/internal/gateway"
	"cumplia.mx/compliance-gateway/internal/llm"
	"cumplia.mx/compliance-gateway/internal/store"
	"cumplia.mx/compliance-gateway/pkg/logger"
)

func main() {
	// Load configuration
	config.LoadConfig()

	log, err := logger.New(config.AppConfig.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer dbStore.Close()

	// Initialize Gemini adapter with fixed generation bounds
	params := llm.DefaultParams(config.AppConfig.LLMModel, config.AppConfig.LLMTimeout)
	geminiClient, err := llm.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey, params)
	if err != nil {
		log.Fatal("failed to create Gemini client", zap.Error(err))
	}
	defer geminiClient.Close()

	// Wire the gateway pipeline
	recorder := gateway.NewRecorder(dbStore, log)
	orchestrator := gateway.NewOrchestrator(geminiClient, recorder, log)

	// Initialize API handler and router
	apiHandler := api.NewAPIHandler(orchestrator, dbStore, log,
		config.AppConfig.JWTSecret, config.AppConfig.APIClientSecret)
	router := api.NewRouter(apiHandler, log, api.RateLimitConfig{
		Requests: config.AppConfig.RateLimitRequests,
		Window:   config.AppConfig.RateLimitWindow,
	})

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // model calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Drain in-flight best-effort recorder writes before closing the store.
	orchestrator.Drain()

	log.Info("server stopped")
}
