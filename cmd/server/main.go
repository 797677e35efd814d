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

	"authgate/internal/api"
	"authgate/internal/app/service"
	"authgate/internal/common/security"
	"authgate/internal/domain/repository"
	"authgate/internal/platform/config"
	"authgate/internal/platform/database"
	"authgate/internal/platform/logger"
	"authgate/internal/platform/redisdb"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration. A missing JWT_SECRET stops the process here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// 2. Initialize Logger
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer zlog.Sync()

	// 3. Initialize JWT
	tokens, err := security.NewTokenAuth(cfg.JWTKey, cfg.JWTExp)
	if err != nil {
		zlog.Fatal("JWT initialization failed", zap.Error(err))
	}

	// 4. Initialize Store
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	userRepo, closeStore, err := openUserRepository(ctx, cfg, zlog)
	cancel()
	if err != nil {
		zlog.Fatal("Store initialization failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost, zlog)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(api.RouterConfig{ClientURL: cfg.ClientURL}, authService, tokens, zlog)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.APIPort), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Could not listen", zap.String("port", cfg.APIPort), zap.Error(err))
		}
	}()

	<-stop

	zlog.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
		return
	}
	zlog.Info("Server stopped gracefully")
}

func openUserRepository(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (repository.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(ctx, cfg.DBConnStr, zlog)
		if err != nil {
			return nil, nil, err
		}
		if cfg.DBMigrate {
			if err := database.Migrate(ctx, db, zlog); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return repository.NewPgUserRepository(db), func() { database.Close(db, zlog) }, nil

	case config.StoreDriverRedis:
		rdb, err := redisdb.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, zlog)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisUserRepository(rdb, cfg.RedisKeyPrefix), func() { redisdb.Close(rdb, zlog) }, nil

	default:
		zlog.Warn("Using in-memory user store; accounts are lost on restart")
		return repository.NewMemoryUserRepository(), func() {}, nil
	}
}
