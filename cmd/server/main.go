package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/events"
	"bookstore-backend/internal/httpserver"
	"bookstore-backend/internal/logging"
	loggingmw "bookstore-backend/internal/middleware/logging"
	"bookstore-backend/internal/repo"
	"bookstore-backend/internal/service/cart"
	"bookstore-backend/internal/service/catalog"
	"bookstore-backend/internal/service/order"
	"bookstore-backend/internal/service/rating"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DBHost, "DB_HOST")
	config.MustNonEmpty(cfg.DBName, "DB_NAME")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gdb, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var prod *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = events.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	r := repo.New(gdb)
	cartSvc := &cart.Service{Repo: r}
	catalogSvc := &catalog.Service{Repo: r}
	ratingSvc := &rating.Service{Repo: r}
	orderSvc := &order.Service{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		CartHandler:  &httpserver.CartHTTP{Svc: cartSvc, Producer: prod},
		BookHandler:  &httpserver.BookHTTP{Catalog: catalogSvc, Rating: ratingSvc, Producer: prod},
		OrderHandler: &httpserver.OrderHTTP{Svc: orderSvc, Producer: prod},
		JWTSecret:    cfg.JWTSecret,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
