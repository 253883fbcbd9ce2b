package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/api"
	"github.com/khushalshaarma/vedacode-signaling/internal/bot"
	"github.com/khushalshaarma/vedacode-signaling/internal/config"
	"github.com/khushalshaarma/vedacode-signaling/internal/handlers"
	"github.com/khushalshaarma/vedacode-signaling/internal/hub"
	"github.com/khushalshaarma/vedacode-signaling/internal/registry"
	"github.com/khushalshaarma/vedacode-signaling/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// Chat-completion collaborator. Without a key the chat path still
	// answers, with the fallback reply.
	var responder bot.Responder
	if cfg.OpenAIKey != "" {
		responder = bot.NewClient(cfg.OpenAIKey, cfg.ChatAPIURL, cfg.ChatModel, cfg.ChatTimeout)
		logger.Info().Msg("chat completion configured")
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, chat replies will be the error fallback")
	}

	// Wire the signaling core: transport owns the sockets, the hub
	// owns room presence and routing.
	transport := ws.NewTransport(logger)
	signalingHub := hub.New(logger, registry.New(), transport, responder, cfg.ChatTimeout)

	handler := handlers.NewHandler(signalingHub, transport, responder, logger)
	router := api.NewRouter(cfg, logger, signalingHub, transport, handler)

	// Create server. No WriteTimeout: it would sever long-lived
	// websocket connections.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting signaling server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	// Room membership is in-memory only; clients re-join on reconnect.
	signalingHub.Shutdown()

	logger.Info().Msg("server stopped")
}
