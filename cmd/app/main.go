package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shorturl-go/internal/classify"
	"shorturl-go/internal/handler"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/middleware"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/service"
	"shorturl-go/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

// newStore selects the backing store. MySQL plus the redis resolution cache
// in production; the in-memory driver for local development.
func newStore(logger *zap.Logger) repository.Store {
	if viper.GetString("store.driver") == "memory" {
		logger.Warn("Using in-memory store, records will not survive a restart")
		return repository.NewMemoryStore()
	}

	db, err := repository.OpenDB(viper.GetString("db.dsn"), logger, logging.AtomicLevel)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}

	var cache *redis.Pool
	if addr := viper.GetString("redis.addr"); addr != "" {
		cache = repository.NewRedisPool(addr, viper.GetString("redis.password"), logger)
	}

	return repository.NewGormStore(db, cache, logger)
}

func startServer(r *gin.Engine, logger *zap.Logger) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func main() {
	initConfig()
	logging.InitLoggerFromConfig()
	logger := logging.Logger
	logger.Info("Application started")

	bundle, err := i18n.InitBundle([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		logger.Fatal("Failed to load i18n messages", zap.Error(err))
	}

	store := newStore(logger)

	baseURL := viper.GetString("server.base_url")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	titles := service.NewTitleFetcher(viper.GetDuration("title_fetch.timeout"), logger)
	links := service.NewLinkService(store, titles, baseURL, logger)
	redirects := service.NewRedirectService(store, logger)
	sweeper := service.NewSweepService(store, viper.GetDuration("sweep.retention"), logger)

	// the classifier recognizes exactly the locales the bundle loaded
	classifier := classify.New(i18n.SupportedLanguages)

	linkHandler := handler.NewShortLinkHandler(links, logger)
	redirectHandler := handler.NewRedirectHandler(classifier, redirects)
	sweepHandler := handler.NewSweepHandler(sweeper)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))

	api := r.Group("/api")
	{
		api.POST("/shortlink", linkHandler.Create)
		api.GET("/shortlink", linkHandler.List)
		api.DELETE("/shortlink/custom", linkHandler.DeleteCustom)
		api.POST("/sweep", sweepHandler.Trigger)
	}

	// everything else is classified: short-code candidates redirect here,
	// application pages fall through to the page router
	r.Use(redirectHandler.Middleware())

	schedule := viper.GetString("sweep.schedule")
	if schedule == "" {
		schedule = "0 3 * * *"
	}

	c := cron.New()
	_, addErr := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := sweeper.Sweep(ctx); err != nil {
			logger.Error("Scheduled sweep failed", zap.Error(err))
		}
	})
	if addErr != nil {
		logger.Fatal("Failed to schedule sweep job", zap.Error(addErr))
	}
	c.Start()

	startServer(r, logger)
}
