package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fitrecipes/vector-search/internal/api"
	"github.com/fitrecipes/vector-search/internal/middleware"
	"github.com/fitrecipes/vector-search/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// NewServer creates a new server instance
func NewServer(db *gorm.DB, redisClient *redis.Client, searchService service.ISearchService, apiKey string) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin", middleware.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))
	router.Use(middleware.ErrorHandler())

	// Health stays outside authentication for load balancer probes.
	api.NewHealthHandler(db, redisClient).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(apiKey))
	if redisClient != nil {
		v1.Use(middleware.NewSearchRateLimiter(redisClient).RateLimitMiddleware())
	}

	api.NewSearchHandler(searchService).RegisterRoutes(v1)
	api.NewEmbeddingHandler(searchService).RegisterRoutes(v1)

	return &Server{
		router: router,
		db:     db,
	}
}

// Start starts the server and blocks until an interrupt signal arrives.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
