package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"tiffin-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all runtime settings. Every field has a usable default so the
// service starts with no environment at all.
type Config struct {
	Port     string
	Env      string
	GinMode  string
	LogLevel string

	// DBPath is a sqlite DSN. ":memory:" keeps all state in process memory.
	DBPath         string
	SeedSampleData bool

	JWTSecret []byte
	TokenTTL  time.Duration

	OTPTTL        time.Duration
	OTPStaticCode string

	DeliveryRate decimal.Decimal

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL      string
	AMQPExchange string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		GinMode:        getEnv("GIN_MODE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", ":memory:"),
		SeedSampleData: getEnvAsBool("SEED_SAMPLE_DATA", true),
		JWTSecret:      []byte(getEnv("JWT_SECRET", "tiffin_super_secret_change_me")),
		TokenTTL:       getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		OTPTTL:         getEnvAsDuration("OTP_TTL", 5*time.Minute),
		OTPStaticCode:  getEnv("OTP_STATIC_CODE", "123456"),
		DeliveryRate:   getEnvAsDecimal("DELIVERY_RATE", decimal.NewFromInt(50)),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "tiffin.orders"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v, err := decimal.NewFromString(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// InitDB opens the sqlite database and migrates every model.
func InitDB(dsn string) (*gorm.DB, error) {
	return openDB(dsn, log.New(os.Stderr, "\r\n", log.LstdFlags))
}

// openDB is InitDB with the gorm log output redirected to w. Lookups that
// find nothing are an expected outcome here, not something to log.
func openDB(dsn string, w logger.Writer) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(w, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	// One connection: an in-memory database lives and dies with its
	// connection, and it serializes every write transaction.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	err = db.AutoMigrate(
		&models.User{},
		&models.Dish{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.OTPChallenge{},
		&models.DeliveryProfile{},
		&models.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
