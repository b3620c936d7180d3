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

	"github.com/ndolgikh/marketcore/internal/audit"
	"github.com/ndolgikh/marketcore/internal/config"
	"github.com/ndolgikh/marketcore/internal/httpserver"
	"github.com/ndolgikh/marketcore/internal/logging"
	"github.com/ndolgikh/marketcore/internal/mykafka"
	"github.com/ndolgikh/marketcore/internal/pricing"
	"github.com/ndolgikh/marketcore/internal/repo"
	"github.com/ndolgikh/marketcore/internal/service"
	"github.com/ndolgikh/marketcore/pkg/db"
	loggingmw "github.com/ndolgikh/marketcore/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := repo.Migrate(database); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	var sink *audit.Sink
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		sink = audit.NewSink(producer, cfg.AuditTopic)
	} else {
		logger.Warn("KAFKA_BROKERS not set, audit events disabled")
	}

	r := &repo.GormRepo{DB: database}
	accessTTL := time.Duration(cfg.AccessTTLHours) * time.Hour

	deps := &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.UserService{
				Repo:      r,
				Audit:     sink,
				JWTSecret: cfg.JWTSecret,
				AccessTTL: accessTTL,
			},
			AccessTTL: accessTTL,
		},
		CartHandler:  &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Pricing: &pricing.Engine{}, Audit: sink}},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc: &service.CatalogService{Repo: r, Audit: sink},
		},
		TicketHandler: &httpserver.TicketHTTP{Svc: &service.TicketService{Repo: r}},
		JWTSecret:     cfg.JWTSecret,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
