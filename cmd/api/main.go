package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/nasiya-uz/nasiya-api/internal/config"
	"github.com/nasiya-uz/nasiya-api/internal/database"
	"github.com/nasiya-uz/nasiya-api/internal/handlers"
	"github.com/nasiya-uz/nasiya-api/internal/middleware"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"github.com/nasiya-uz/nasiya-api/internal/services"
	"github.com/nasiya-uz/nasiya-api/internal/session"
	"github.com/nasiya-uz/nasiya-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("Invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to redis")

	sessionStore := session.NewStore(rdb, time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	repos := repository.NewRepositories(db)
	svcs := services.NewServices(repos)
	h := handlers.NewHandlers(svcs, sessionStore, repos.User)

	router := setupRouter(h, sessionStore, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := rdb.Close(); err != nil {
		logger.Error("Failed to close redis client", "error", err)
	}

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, store *session.Store, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Check)

		auth := v1.Group("/auth")
		{
			auth.POST("/otp", h.Auth.RequestOTP)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.Actor(store))
		{
			partners := protected.Group("/partners")
			{
				partners.GET("", h.Partner.Index)
				partners.GET("/:id", h.Partner.Show)
				partners.POST("", h.Partner.Create)
				partners.PATCH("/:id", h.Partner.Update)
			}

			products := protected.Group("/products")
			{
				products.GET("", h.Product.Index)
				products.GET("/:id", h.Product.Show)
				products.POST("", h.Product.Create)
				products.PATCH("/:id", h.Product.Update)
				products.POST("/:id/restock", h.Product.Restock)
			}

			contracts := protected.Group("/contracts")
			{
				contracts.GET("", h.Contract.Index)
				contracts.GET("/:id", h.Contract.Show)
				contracts.POST("", h.Contract.Create)
				contracts.PATCH("/:id", h.Contract.Update)
				contracts.DELETE("/:id", h.Contract.Destroy)
			}

			payments := protected.Group("/payments")
			{
				payments.GET("", h.Payment.Index)
				payments.GET("/:id", h.Payment.Show)
				payments.POST("", h.Payment.Create)
				payments.PATCH("/:id", h.Payment.Update)
				payments.DELETE("/:id", h.Payment.Destroy)
			}

			returns := protected.Group("/returns")
			{
				returns.GET("", h.Return.Index)
				returns.GET("/reasons", h.Return.Reasons)
				returns.GET("/:id", h.Return.Show)
				returns.POST("", h.Return.Create)
			}

			debts := protected.Group("/debts")
			{
				debts.GET("", h.Debt.Index)
				debts.GET("/:id", h.Debt.Show)
			}

			protected.GET("/history", h.Audit.Index)
		}
	}

	return router
}
