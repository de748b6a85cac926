package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tiffin-api/auth"
	"tiffin-api/config"
	"tiffin-api/events"
	"tiffin-api/handlers"
	"tiffin-api/logger"
	"tiffin-api/metrics"
	"tiffin-api/repository"
	"tiffin-api/routes"
	"tiffin-api/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.DBPath))

	hasher := auth.NewBcryptHasher()
	if cfg.SeedSampleData {
		seeded, err := config.Seed(db, hasher)
		if err != nil {
			log.Fatal("Failed to seed sample data", zap.Error(err))
		}
		if seeded {
			log.Info("Sample data seeded",
				zap.Strings("logins", []string{"user@test.com", "admin@tiffin.com", "john@delivery.com"}),
				zap.String("password", config.SamplePassword))
		}
	}

	// OTP challenges live in redis when configured, otherwise in the DB.
	var otps auth.OTPStore = repository.NewOTPRepository(db)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer client.Close()
		otps = auth.NewRedisOTPStore(client)
		log.Info("OTP challenges stored in redis", zap.String("addr", cfg.RedisAddr))
	}

	codes := auth.RandomCode
	if cfg.OTPStaticCode != "" {
		codes = auth.StaticCode(cfg.OTPStaticCode)
	}

	m := metrics.New("tiffin")
	users := repository.NewUserRepository(db)
	orders := repository.NewOrderRepository(db)
	dishes := repository.NewDishRepository(db)
	notifications := services.NewNotificationService(repository.NewNotificationRepository(db), log)

	publisher := events.Fanout{notifications, m}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer amqpPub.Close()
		publisher = append(publisher, amqpPub)
		log.Info("Publishing order events", zap.String("exchange", cfg.AMQPExchange))
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	h := &handlers.Handler{
		Auth:          auth.NewService(users, otps, hasher, tokens, log).WithOTP(codes, cfg.OTPTTL),
		Catalog:       services.NewCatalogService(dishes),
		Orders:        services.NewOrderService(orders, publisher, log),
		Delivery:      services.NewDeliveryService(orders, users, repository.NewDeliveryProfileRepository(db), cfg.DeliveryRate),
		Payments:      services.NewPaymentService(orders, publisher, log),
		Admin:         services.NewAdminService(users, orders, dishes, log),
		Notifications: notifications,
		Env:           cfg.Env,
		StartedAt:     time.Now(),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.New(h, tokens, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server running", zap.String("addr", "http://localhost:"+cfg.Port), zap.String("environment", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
