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
	"github.com/rogerio-castellano/product-services/internal/db"
	api "github.com/rogerio-castellano/product-services/internal/http"
	"github.com/rogerio-castellano/product-services/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-services/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-services/internal/redissvc"
	"github.com/rogerio-castellano/product-services/internal/repo"
)

// The registry always listens here; PORT only applies to the catalog.
const addr = ":3000"

// @title Product Registry API
// @version 1.0
// @description In-memory product registry with name filtering and pagination.
// @host localhost:3000
// @BasePath /
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

	productRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Could not open %s store: %v", cfg.RegistryStore, err)
	}
	defer closeStore()
	handlers.SetProductRepo(productRepo)

	var opts []api.RouterOption
	if cfg.RateLimitRPS > 0 {
		limiter := rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.StartVisitorCleanupLoop(ctx)
		opts = append(opts, api.WithRateLimiter(limiter))
	}

	srv := &http.Server{Addr: addr, Handler: api.NewRouter(opts...)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("✅ Server running at http://localhost%s (%s store)", addr, cfg.RegistryStore)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openStore returns the configured repository, seeded when empty, and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (repo.ProductRepository, func(), error) {
	switch cfg.RegistryStore {
	case config.StorePostgres:
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		r := repo.NewPostgresProductRepository(database)
		if err := r.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		if err := r.Seed(ctx, repo.SeedProducts()); err != nil {
			database.Close()
			return nil, nil, err
		}
		return r, func() { database.Close() }, nil

	case config.StoreRedis:
		svc, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		r := repo.NewRedisProductRepository(svc.Rdb(), cfg.RedisKeyPrefix)
		if err := r.Seed(ctx, repo.SeedProducts()); err != nil {
			svc.Close()
			return nil, nil, err
		}
		return r, func() { svc.Close() }, nil

	default:
		return repo.NewInMemoryProductRepository(repo.SeedProducts()...), func() {}, nil
	}
}
