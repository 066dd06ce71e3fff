package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shipment-route-service/internal/adapters/cache"
	"shipment-route-service/internal/adapters/distance"
	"shipment-route-service/internal/adapters/repositories"
	"shipment-route-service/internal/api"
	"shipment-route-service/internal/config"
	"shipment-route-service/internal/platform/db"
	"shipment-route-service/internal/ports"
	"shipment-route-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, Redis, the directions service) behind ports and starts the
// HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	port := config.Get("PORT", "8080")

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	// A missing directions key is not fatal: the estimator degrades to zero
	// estimates and the engine substitutes its heuristic fallback.
	apiKey := os.Getenv("DIRECTIONS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Println("DIRECTIONS_API_KEY not set; routes will use fallback estimates")
	}

	var estimateCache ports.EstimateCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		estimateCache = cache.NewRedisEstimateCache(client, 24*time.Hour)
		defer client.Close()
	}

	estimator := distance.NewDirectionsEstimator(apiKey, config.Get("DIRECTIONS_BASE_URL", ""), estimateCache)

	cfg := services.DefaultOptimizerConfig()
	cfg.BatchSize = config.GetInt("OPTIMIZER_BATCH_SIZE", cfg.BatchSize)

	store := repositories.NewPostgresStore(database)
	router := api.NewRouter(store, estimator, cfg)

	// The optimize pass calls the directions service once per planned
	// route; write timeout leaves room for those round trips.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
