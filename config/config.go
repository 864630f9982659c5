package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port      string
	Env       string
	StoreName string
	Currency  string

	MongoURI string
	MongoDB  string

	JWTSecret   string
	TokenTTL    time.Duration
	AdminPhones []string

	RedisAddr     string
	RedisPassword string

	Razorpay Razorpay

	WhatsAppNumber string

	KafkaBrokers []string
	KafkaTopic   string

	SMTP              SMTP
	OrderNotifyEmail  string
	RequestTimeout    time.Duration
	PaymentBreakerMax uint32
}

type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// LoadEnv loads environment variables from a .env file
func LoadEnv(log *zap.Logger) {
	if err := godotenv.Load(".env"); err != nil {
		log.Info("no .env file loaded", zap.Error(err))
	}
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port:      GetEnv("PORT", "3000"),
		Env:       GetEnv("ENV", "production"),
		StoreName: GetEnv("STORE_NAME", "Imaginary Gifts"),
		Currency:  GetEnv("CURRENCY", "INR"),

		MongoURI: mustEnv("MONGODB_URI", log),
		MongoDB:  GetEnv("MONGODB_DB", "imaginary_gifts"),

		JWTSecret:   mustEnv("JWT_SECRET", log),
		TokenTTL:    getDuration("TOKEN_TTL", 72*time.Hour, log),
		AdminPhones: splitAndTrim(os.Getenv("ADMIN_PHONES")),

		RedisAddr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),

		Razorpay: Razorpay{
			KeyID:     GetEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: GetEnv("RAZORPAY_KEY_SECRET", ""),
			BaseURL:   GetEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		},

		WhatsAppNumber: GetEnv("WHATSAPP_NUMBER", "917030191819"),

		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   GetEnv("KAFKA_TOPIC_ORDERS", "orders.created"),

		SMTP: SMTP{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     getInt("SMTP_PORT", 465, log),
			User:     GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("SMTP_FROM", ""),
		},
		OrderNotifyEmail:  GetEnv("ORDER_NOTIFY_EMAIL", ""),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 10*time.Second, log),
		PaymentBreakerMax: uint32(getInt("PAYMENT_BREAKER_MAX_FAILURES", 5, log)),
	}
}

func (c *Config) IsDev() bool { return c.Env == "development" }

func mustEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getInt(key string, def int, log *zap.Logger) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Warn("invalid int environment variable, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return n
}

func getDuration(key string, def time.Duration, log *zap.Logger) time.Duration {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn("invalid duration environment variable, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return d
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
