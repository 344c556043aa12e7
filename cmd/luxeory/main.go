package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookingapp "luxeory/internal/app/booking"
	consistencyapp "luxeory/internal/app/consistency"
	"luxeory/internal/app/events"
	reviewsapp "luxeory/internal/app/reviews"
	roomsapp "luxeory/internal/app/rooms"
	domainbookings "luxeory/internal/domain/bookings"
	domainreviews "luxeory/internal/domain/reviews"
	domainrooms "luxeory/internal/domain/rooms"
	"luxeory/internal/infra/broker/kafka"
	"luxeory/internal/infra/config"
	mongodb "luxeory/internal/infra/db/mongo"
	ginserver "luxeory/internal/infra/http/gin"
	"luxeory/internal/infra/obs"
	"luxeory/internal/infra/security"
	"luxeory/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	var (
		roomRepo    domainrooms.Repository
		bookingRepo domainbookings.Repository
		reviewRepo  domainreviews.Repository
		ready       func() error
	)
	switch cfg.StoreMode {
	case config.StoreModeMemory:
		logger.Warn("using in-memory store, data will not survive restarts")
		roomRepo = memory.NewRoomRepository()
		bookingRepo = memory.NewBookingRepository()
		reviewRepo = memory.NewReviewRepository()
		ready = func() error { return nil }
	default:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB, cfg.StoreTimeout)
		if err != nil {
			logger.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		if err := client.Ping(pingCtx); err != nil {
			logger.Warn("mongo ping failed, continuing", "error", err)
		}
		cancel()
		roomRepo = mongodb.NewRoomRepository(client.DB)
		bookingRepo = mongodb.NewBookingRepository(client.DB)
		reviewRepo = mongodb.NewReviewRepository(client.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Warn("kafka producer unavailable, events disabled", "error", err)
		} else {
			defer producer.Close()
			publisher = &events.Publisher{
				Producer:    producer,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Source:      "app://luxeory",
				Logger:      logger,
			}
			logger.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
		}
	}

	tokens := security.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}

	bookingWorkflow := &bookingapp.Workflow{
		Rooms:        roomRepo,
		Bookings:     bookingRepo,
		Events:       publisher,
		StoreTimeout: cfg.StoreTimeout,
		Logger:       logger,
	}
	catalog := &roomsapp.Catalog{Rooms: roomRepo, StoreTimeout: cfg.StoreTimeout, Logger: logger}
	reviewService := &reviewsapp.Service{
		Rooms:        roomRepo,
		Reviews:      reviewRepo,
		Events:       publisher,
		StoreTimeout: cfg.StoreTimeout,
		Logger:       logger,
	}

	if cfg.ReconcileInterval > 0 {
		reconciler := &consistencyapp.Reconciler{
			Rooms:        roomRepo,
			Bookings:     bookingRepo,
			Events:       publisher,
			Logger:       logger,
			Interval:     cfg.ReconcileInterval,
			StoreTimeout: cfg.StoreTimeout,
		}
		go func() {
			if err := reconciler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reconciler stopped", "error", err)
			}
		}()
		logger.Info("availability reconciler running", "interval", cfg.ReconcileInterval)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, ginserver.Handlers{
		Rooms:          ginserver.RoomHandler{Catalog: catalog, Logger: logger},
		Bookings:       ginserver.BookingHandler{Workflow: bookingWorkflow, Logger: logger},
		Reviews:        ginserver.ReviewHandler{Reviews: reviewService, Logger: logger},
		Auth:           ginserver.AuthHandler{Tokens: tokens, Production: cfg.Production(), Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Tokens: tokens, Logger: logger}.Handle,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
