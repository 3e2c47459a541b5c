package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dkotenko/storefront/internal/config"
	"github.com/dkotenko/storefront/internal/events"
	"github.com/dkotenko/storefront/internal/httpserver"
	"github.com/dkotenko/storefront/internal/logging"
	"github.com/dkotenko/storefront/internal/repo"
	"github.com/dkotenko/storefront/internal/search"
	"github.com/dkotenko/storefront/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer events.Producer = events.Nop{}
	if cfg.KafkaAddress != "" {
		producer = events.NewKafkaProducer(cfg.KafkaAddress)
	}

	var searchClient *search.Client
	if cfg.ESURL != "" {
		searchClient, err = search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	gormRepo := &repo.GormRepo{DB: db}

	deps := &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:          gormRepo,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
		}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo:     gormRepo,
			Producer: producer,
			Search:   searchClient,
		}},
		Cart: &httpserver.CartHTTP{Svc: &service.CartService{
			Repo:     gormRepo,
			Producer: producer,
		}},
		JWTSecret: cfg.JWTSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(logging.RequestLogger(logger))

	httpserver.Register(e, deps)

	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("producer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
