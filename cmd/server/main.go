package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/luizlzg/mcp-agent-transport/internal/adapters/cache"
	"github.com/luizlzg/mcp-agent-transport/internal/adapters/repositories"
	"github.com/luizlzg/mcp-agent-transport/internal/adapters/transport"
	"github.com/luizlzg/mcp-agent-transport/internal/api"
	"github.com/luizlzg/mcp-agent-transport/internal/config"
	"github.com/luizlzg/mcp-agent-transport/internal/platform/db"
	"github.com/luizlzg/mcp-agent-transport/internal/ports"
	"github.com/luizlzg/mcp-agent-transport/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (providers, caches, repositories) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	itineraryDir := config.Get("ITINERARY_DIR", "data/itineraries")

	providers := buildProviders()
	if len(providers) == 0 {
		log.Fatal("no transport providers configured: set AMADEUS_API_KEY/AMADEUS_API_SECRET, SNCF_API_KEY or RAPIDAPI_KEY")
	}

	optionCache, closeCache := buildCache()
	defer closeCache()

	search := services.NewTransportSearch(providers, optionCache)

	itineraries, err := repositories.NewFSItineraryRepository(itineraryDir)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(search, itineraries)

	// Timeouts are tuned for cold-cache searches (external API latency).
	log.Printf("Server listening addr=:%s providers=%d", port, len(providers))
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

// buildProviders instantiates every transport provider with configured
// credentials. Missing keys simply disable that provider.
func buildProviders() []ports.TransportProvider {
	var providers []ports.TransportProvider

	amadeusKey := strings.TrimSpace(os.Getenv("AMADEUS_API_KEY"))
	amadeusSecret := strings.TrimSpace(os.Getenv("AMADEUS_API_SECRET"))
	if amadeusKey != "" && amadeusSecret != "" {
		p, err := transport.NewAmadeusProvider(amadeusKey, amadeusSecret)
		if err != nil {
			log.Fatal(err)
		}
		providers = append(providers, p)
	}

	if key := strings.TrimSpace(os.Getenv("SNCF_API_KEY")); key != "" {
		p, err := transport.NewSNCFProvider(key)
		if err != nil {
			log.Fatal(err)
		}
		providers = append(providers, p)
	}

	if key := strings.TrimSpace(os.Getenv("RAPIDAPI_KEY")); key != "" {
		p, err := transport.NewFlixBusProvider(key)
		if err != nil {
			log.Fatal(err)
		}
		providers = append(providers, p)
	}

	return providers
}

// buildCache picks the option cache backend from the environment: Postgres
// when DATABASE_URL is set, Redis when REDIS_ADDR is set, local SQLite
// otherwise.
func buildCache() (ports.OptionCache, func()) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		sqlDB, err := db.OpenPostgres(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("option cache backend=postgres")
		return cache.NewSQLOptionCache(sqlDB), func() { sqlDB.Close() }
	}

	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		log.Println("option cache backend=redis")
		return cache.NewRedisOptionCache(client, 0), func() { client.Close() }
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	sqlDB, err := db.OpenSqlite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cache.InitSqliteSchema(context.Background(), sqlDB); err != nil {
		log.Fatal(err)
	}
	log.Println("option cache backend=sqlite")
	return cache.NewSqliteOptionCache(sqlDB), func() { sqlDB.Close() }
}
