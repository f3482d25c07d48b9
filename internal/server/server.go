package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"atelier-catalog/internal/config"
	"atelier-catalog/internal/database"
	custommiddleware "atelier-catalog/internal/middleware"
	"atelier-catalog/internal/repository"
	"atelier-catalog/internal/service"
	"atelier-catalog/internal/storage"
	"atelier-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewServer wires the catalog pipeline into an HTTP server. blobs and
// redisClient may be nil: without a blob store image cleanup and
// uploads are disabled, and without Redis the admin rate limiter is
// skipped.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, blobs storage.BlobStore, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, !cfg.IsProduction()))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(database.Health(db))
	})

	// Wire the product pipeline
	productStore := repository.NewProductRepository(db)
	productService := service.NewProductService(productStore, blobs, logger)
	productHandler := transport.NewProductHandler(productService, blobs, cfg.IsProduction(), logger)

	// Admin middleware chain: verified session, admin role, rate limit
	adminChain := []func(http.Handler) http.Handler{
		custommiddleware.SessionMiddleware(cfg.Auth.JWTSecret, logger),
		custommiddleware.RequireAdmin(logger),
	}
	if redisClient != nil {
		adminChain = append(adminChain, custommiddleware.RateLimitMiddleware(
			redisClient,
			custommiddleware.RateLimitConfig{
				RequestsPerWindow: 60,
				Window:            time.Minute,
				KeyPrefix:         "ratelimit:admin",
			},
			logger,
		))
	}

	productHandler.RegisterRoutes(router, adminChain...)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
