package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"craftdash/internal/config"
	"craftdash/internal/domain"
	"craftdash/internal/etsy"
	custommiddleware "craftdash/internal/middleware"
	"craftdash/internal/oauth"
	"craftdash/internal/repository"
	"craftdash/internal/service"
	"craftdash/internal/transport"

	"github.com/go-chi/chi/v5"
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

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	productService := service.NewProductService(productRepo, nil)
	orderService := service.NewOrderService(orderRepo, productRepo)
	insightsService := service.NewInsightsService(
		productRepo, orderRepo, profileRepo,
		etsy.NewClient("", nil), cfg.Etsy.ShopID,
		logger,
	)

	// Integration connectors
	etsyConnector := oauth.NewConnector("etsy", domain.TokenSlotEtsy, cfg.Etsy, nil)
	canvaConnector := oauth.NewConnector("canva", domain.TokenSlotCanva, cfg.Canva, nil)

	// Middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	optionalAuthMiddleware := custommiddleware.OptionalAuthMiddleware(cfg.JWT.Secret, logger)
	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit:public",
	}, logger)

	// Handlers
	userHandler := transport.NewUserHandler(userService, profileRepo, logger)
	insightsHandler := transport.NewInsightsHandler(insightsService, productService, orderService, logger)
	etsyHandler := transport.NewOAuthHandler(etsyConnector, profileRepo, logger)
	canvaHandler := transport.NewOAuthHandler(canvaConnector, profileRepo, logger)

	// Session and connect routes face the open internet (login, refresh,
	// provider callbacks), so the whole group sits behind the limiter.
	router.Group(func(r chi.Router) {
		r.Use(rateLimit)
		userHandler.RegisterRoutes(r, authMiddleware)
		etsyHandler.RegisterRoutes(r, authMiddleware, optionalAuthMiddleware)
		canvaHandler.RegisterRoutes(r, authMiddleware, optionalAuthMiddleware)
	})
	insightsHandler.RegisterRoutes(router, authMiddleware)

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
