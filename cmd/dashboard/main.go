package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GreedyKomodoDragon/Kontroler/internal/auth"
	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/GreedyKomodoDragon/Kontroler/internal/config"
	"github.com/GreedyKomodoDragon/Kontroler/internal/session"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api"
	"github.com/GreedyKomodoDragon/Kontroler/pkg/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	logger := cfg.NewLogger()
	logger.Infof("Starting Kontroler dashboard v%s", api.Version)

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	opts := []client.Option{client.WithLogger(logger)}
	if cfg.AuthURL != "" {
		opts = append(opts, client.WithAuthURL(cfg.AuthURL))
	}
	backend, err := client.NewClient(cfg.APIURL, opts...)
	if err != nil {
		logger.Fatalf("Failed to create backend client: %v", err)
	}

	sessions, health, closeStore := newSessionStore(cfg, logger)
	defer closeStore()

	limiter := middleware.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	defer limiter.Stop()

	router := api.NewRouter(api.Dependencies{
		Backend:     backend,
		Checker:     auth.NewBackendChecker(backend),
		Sessions:    sessions,
		Reporter:    auth.NewLogReporter(logger, logrus.Fields{"component": "dagform"}),
		RateLimiter: limiter,
		Logger:      logger,
		Health:      health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal %v, initiating graceful shutdown...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}

	logger.Info("Dashboard stopped successfully")
}

// newSessionStore picks the configured session backend. The returned health
// func reports the state of Redis when it is in use.
func newSessionStore(cfg *config.Config, logger *logrus.Logger) (session.Store, func() map[string]string, func()) {
	if cfg.SessionBackend != config.SessionRedis {
		logger.Info("Using in-memory authoring sessions")
		health := func() map[string]string {
			return map[string]string{"sessions": "memory"}
		}
		return session.NewMemoryStore(cfg.SessionTTL), health, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := session.NewRedisStore(rdb, cfg.SessionTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr(), err)
	}
	logger.Infof("Using Redis authoring sessions at %s", cfg.RedisAddr())

	health := func() map[string]string {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return map[string]string{"sessions": "redis", "redis": "down"}
		}
		return map[string]string{"sessions": "redis", "redis": "up"}
	}
	closeStore := func() {
		if err := rdb.Close(); err != nil {
			logger.Warnf("Failed to close Redis client: %v", err)
		}
	}
	return store, health, closeStore
}
