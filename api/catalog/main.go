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

	"github.com/joho/godotenv"
	"github.com/rogerio-castellano/product-services/internal/config"
	api "github.com/rogerio-castellano/product-services/internal/http"
	rl "github.com/rogerio-castellano/product-services/internal/http/rate_limiter"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []api.RouterOption
	if cfg.RateLimitRPS > 0 {
		limiter := rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.StartVisitorCleanupLoop(ctx)
		opts = append(opts, api.WithRateLimiter(limiter))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewCatalogRouter(cfg.CatalogDir, opts...),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("✅ Server listening on port %s (serving %s)", cfg.Port, cfg.CatalogDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
