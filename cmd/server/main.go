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

	"github.com/asdscreen/asd-screening-api/internal/api"
	"github.com/asdscreen/asd-screening-api/internal/classifier"
	"github.com/asdscreen/asd-screening-api/internal/database"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/places"
	"github.com/asdscreen/asd-screening-api/internal/services"
	"github.com/asdscreen/asd-screening-api/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	appLog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	if zl, ok := appLog.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}

	if cfg.JWTSecret == "" {
		appLog.Fatal("JWT_SECRET must be set", errors.New("missing JWT secret"))
	}

	// Artifacts load once; a missing band is fatal
	registry, err := classifier.LoadRegistry(cfg.ModelDir)
	if err != nil {
		appLog.Fatal("Failed to load model artifacts", err, "model_dir", cfg.ModelDir)
	}
	appLog.Info("model artifacts loaded", "model_dir", cfg.ModelDir, "bands", len(registry.Bands()))

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		appLog.Fatal("Failed to run migrations", err)
	}

	var cache places.Cache
	if cfg.HasRedis() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := places.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			appLog.Warn("Redis unavailable, places cache disabled", "error", err.Error())
		} else {
			defer rdb.Close()
			cache = places.NewRedisCache(rdb)
		}
	}
	if !cfg.HasPlacesCredentials() {
		appLog.Warn("GOOGLE_API_KEY is not set, hospital search will be rejected upstream")
	}

	placesClient := places.NewClient(cfg, cache, appLog.With("component", "places"))
	defer placesClient.Close()

	svc := services.NewServices(db.DB, registry, cfg, appLog)

	router, err := api.NewRouter(api.Dependencies{
		Config:        cfg,
		Logger:        appLog,
		Services:      svc,
		Places:        placesClient,
		PlacesMonitor: placesClient.Monitor(),
		DB:            db,
	})
	if err != nil {
		appLog.Fatal("Failed to setup API routes", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		appLog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		appLog.Fatal("Failed to start server", err)
	case sig := <-quit:
		appLog.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("graceful shutdown failed", err)
	}
}
