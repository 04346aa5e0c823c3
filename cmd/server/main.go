package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"model-versioning-service/internal/config"
	"model-versioning-service/internal/domain"
	"model-versioning-service/internal/handler"
	"model-versioning-service/internal/middleware"
	"model-versioning-service/internal/repository"
	"model-versioning-service/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	artifacts, err := repository.NewFileArtifactStore(filepath.Join(cfg.Storage.Dir, "artifacts"))
	if err != nil {
		log.Fatalf("create artifact store: %v", err)
	}

	var store domain.RegistryStore
	switch cfg.Storage.Backend {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Fatalf("parse db config: %v", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MinConns)

		pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("ping db: %v", err)
		}

		pgStore := repository.NewPostgresRegistryStore(pool, cfg.Storage.LockTimeout)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		store = pgStore
		log.Info("postgres registry store initialized")

	default:
		fileStore, err := repository.NewFileRegistryStore(cfg.Storage.Dir, cfg.Storage.LockTimeout)
		if err != nil {
			log.Fatalf("create registry store: %v", err)
		}
		store = fileStore
		log.WithField("dir", cfg.Storage.Dir).Info("file registry store initialized")
	}

	registryUC := usecase.NewRegistryUseCase(store, artifacts)
	h := handler.New(registryUC)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/registry")
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		if _, err := store.Load(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
