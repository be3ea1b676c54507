package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gin-bytemarket/config"
	"gin-bytemarket/events"
	"gin-bytemarket/infra"
	"gin-bytemarket/logger"
	"gin-bytemarket/mailer"
	"gin-bytemarket/migrations"
	"gin-bytemarket/payment"
	"gin-bytemarket/repositories"
	"gin-bytemarket/routes"
	"gin-bytemarket/services"
	"gin-bytemarket/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// bytemarket serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		infra.Initialize()
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	log := logger.L
	if config.SecretKey() == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := infra.SetupDB()
	if err != nil {
		return err
	}
	if config.AutoMigrate() {
		if err := migrations.Migrate(db); err != nil {
			return err
		}
	}

	tokenRepository, err := setupTokenRepository(ctx)
	if err != nil {
		return err
	}

	disk, err := storage.New(ctx)
	if err != nil {
		return err
	}

	if config.StripeSecretKey() == "" {
		log.Warn("STRIPE_SECRET_KEY is not set; hosted checkout will fail")
	}
	provider := payment.NewStripeProvider(config.StripeSecretKey(), config.StripePublicKey(), config.PaymentTimeout())

	var sender mailer.Sender = mailer.LogSender{}
	if config.MailjetPublicKey() != "" && config.MailjetSecretKey() != "" {
		sender = mailer.NewMailjetSender(config.MailjetPublicKey(), config.MailjetSecretKey(), config.MailTimeout())
	} else {
		log.Warn("Mailjet keys are not set; receipts are only logged")
	}

	var publisher events.Publisher = events.LogPublisher{}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, config.KafkaTopic())
		log.Info("Publishing checkout events to Kafka", "brokers", brokers, "topic", config.KafkaTopic())
	}
	defer publisher.Close()

	checkout := services.CheckoutOptions{
		BaseURL:       config.BaseURL(),
		VerifySession: config.VerifyCheckoutSession(),
	}
	if !checkout.VerifySession {
		log.Warn("CHECKOUT_VERIFY_SESSION is off; a visit to /thank-you completes the order without asking Stripe")
	}

	r := routes.Setup(routes.Deps{
		DB:              db,
		TokenRepository: tokenRepository,
		Disk:            disk,
		Provider:        provider,
		Sender:          sender,
		Publisher:       publisher,
		MailFrom:        config.MailFrom(),
		MailFromName:    config.MailFromName(),
		Checkout:        checkout,
		AllowedOrigins:  config.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:         ":" + config.Port(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanExpiredTokens(ctx, tokenRepository)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", config.Port(), "env", config.Env())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}

// setupTokenRepository prefers Redis and falls back to the SQLite blacklist.
func setupTokenRepository(ctx context.Context) (repositories.ITokenRepository, error) {
	rdb, err := infra.SetupRedis(ctx)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		logger.L.Info("Using Redis token blacklist", "addr", config.RedisAddr())
		return repositories.NewRedisTokenRepository(rdb), nil
	}

	tokenDB, err := infra.SetupTokenDB()
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateTokens(tokenDB); err != nil {
		return nil, err
	}
	return repositories.NewTokenRepository(tokenDB), nil
}

func cleanExpiredTokens(ctx context.Context, repo repositories.ITokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanExpiredTokens(ctx)
			if err != nil {
				logger.L.Error("failed to clean expired tokens", "error", err)
				continue
			}
			if n > 0 {
				logger.L.Info("Cleaned expired tokens", "count", n)
			}
		}
	}
}
