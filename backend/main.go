package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("[backend] %v", err)
	}
	configs := NewConfigStore(config)
	ai := NewAIPlayer(configs)
	hub := NewSearchHub()
	ai.SetDepthPublisher(hub.HasClients, hub.Publish)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())

	srv := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           newRouter(ai, configs, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()
	log.Printf("[backend] listening on %s (budget=%dms depth=%d..%d)", config.ListenAddr, config.AiTimeBudgetMs, config.AiStartDepth, config.AiMaxDepth)

	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[backend] server error: %v", err)
			runErr = err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}
	if runErr != nil {
		cancel()
		log.Printf("[backend] exiting after server error: %v", runErr)
		os.Exit(1)
	}
}
