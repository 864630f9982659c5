package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/auth"
	"github.com/imaginarygifts/storefront-backend-go/checkout"
	"github.com/imaginarygifts/storefront-backend-go/config"
	"github.com/imaginarygifts/storefront-backend-go/database"
	"github.com/imaginarygifts/storefront-backend-go/handlers"
	"github.com/imaginarygifts/storefront-backend-go/logger"
	customMiddleware "github.com/imaginarygifts/storefront-backend-go/middleware"
	"github.com/imaginarygifts/storefront-backend-go/notify"
	"github.com/imaginarygifts/storefront-backend-go/payment"
	"github.com/imaginarygifts/storefront-backend-go/routes"
	"github.com/imaginarygifts/storefront-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	config.LoadEnv(zap.NewNop())
	if err := logger.Init(config.GetEnv("ENV", "production") == "development"); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	cfg := config.Load(log)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.CreateIndexes(ctx, db); err != nil {
		cancel()
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	cancel()

	orders := database.NewOrderStore(db)
	catalog := database.NewCatalogStore(db)
	users := database.NewUserStore(db)

	var channels []notify.Channel
	if len(cfg.KafkaBrokers) > 0 {
		kafka := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafka.Close()
		channels = append(channels, kafka)
	}
	if cfg.SMTP.Host != "" && cfg.OrderNotifyEmail != "" {
		channels = append(channels, notify.NewEmailNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, cfg.OrderNotifyEmail, cfg.StoreName))
	}
	notifier := notify.NewMulti(log, channels...)
	log.Info("order notifications configured", zap.Int("channels", notifier.Len()))

	gateway := payment.NewRazorpayGateway(payment.Config{
		KeyID:       cfg.Razorpay.KeyID,
		KeySecret:   cfg.Razorpay.KeySecret,
		BaseURL:     cfg.Razorpay.BaseURL,
		Timeout:     cfg.RequestTimeout,
		MaxFailures: cfg.PaymentBreakerMax,
	}, log)

	checkoutSvc := checkout.NewService(checkout.Deps{
		Catalog:  catalog,
		Orders:   orders,
		Intents:  database.NewIntentStore(db),
		Counters: database.NewCounterStore(db),
		Gateway:  gateway,
		Notifier: notifier,
		Currency: cfg.Currency,
	}, log)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	otpOpts := auth.DefaultOptions()
	otpOpts.AdminPhones = cfg.AdminPhones
	otp := auth.NewOTPService(auth.NewRedisOTPStore(rdb), auth.LogSender{Log: log}, users, tokens, otpOpts, log)

	whatsapp := notify.WhatsApp{Number: cfg.WhatsAppNumber, StoreName: cfg.StoreName}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(customMiddleware.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.SetupRoutes(e, routes.Handlers{
		Catalog:  handlers.NewCatalogHandler(catalog, cfg.RequestTimeout, log),
		Checkout: handlers.NewCheckoutHandler(checkoutSvc, whatsapp, cfg.RequestTimeout, log),
		Auth:     handlers.NewAuthHandler(otp, cfg.RequestTimeout, log),
		Users:    handlers.NewUserHandler(users, cfg.RequestTimeout, log),
		Admin:    handlers.NewAdminHandler(orders, catalog, cfg.RequestTimeout, log),
	}, tokens)

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		log.Error("failed to disconnect from database", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.Error("failed to close redis", zap.Error(err))
	}
	log.Info("server exited")
}
