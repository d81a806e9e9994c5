package main

import (
	"context"
	"log"
	"os"

	"github.com/fitrecipes/vector-search/config"
	"github.com/fitrecipes/vector-search/internal/cache"
	"github.com/fitrecipes/vector-search/internal/database"
	"github.com/fitrecipes/vector-search/internal/server"
	"github.com/fitrecipes/vector-search/internal/service"
	"github.com/fitrecipes/vector-search/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Search degrades gracefully without the cache.
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	var embedder service.EmbeddingServiceInterface
	if cfg.EmbedderURL != "" {
		embedder = service.NewHTTPEmbeddingService(cfg.EmbedderURL, cfg.EmbedderAPIKey, cfg.EmbeddingDimension)
	} else {
		log.Printf("No embedder configured, using local embeddings")
		embedder = service.NewLocalEmbeddingService(cfg.EmbeddingDimension)
	}

	var searchCache service.SearchCacheInterface
	if redisClient != nil {
		searchCache = cache.NewSearchCache(redisClient, cfg.CacheTTL)
	}

	recipeStore := store.NewRecipeStore(db, cfg.SimilarityThreshold)
	searchService := service.NewSearchService(recipeStore, embedder, nil, searchCache)

	if os.Getenv("AWS_REGION") != "" {
		s3cfg, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Printf("S3 unavailable, serving raw image keys: %v", err)
		} else {
			searchService.UseImageService(service.NewImageService(s3cfg))
		}
	}

	srv := server.NewServer(db, redisClient, searchService, cfg.APIKey)
	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
