package main

import (
	"coffee_platform/internal/api"        // Custom package for API handlers
	"coffee_platform/internal/config"     // Custom package for configuration
	"coffee_platform/internal/db"         // Database connection and migrations
	"coffee_platform/internal/mail"       // Code delivery
	"coffee_platform/internal/middleware" // Custom package for middleware
	"coffee_platform/internal/otp"        // One-time codes
	"coffee_platform/internal/service"    // Business services
	"coffee_platform/internal/storage"    // Uploaded images
	"coffee_platform/internal/utils"      // Tokens
	"context"                             // Lifecycle context
	"errors"                              // Error inspection
	"net/http"                            // HTTP server
	"os"                                  // Signals
	"os/signal"                           // Graceful shutdown
	"syscall"                             // Signals
	"time"                                // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and bring the schema up to date
	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	if _, created, err := db.EnsureAdmin(ctx, database, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logrus.Fatalf("failed to bootstrap admin: %v", err)
	} else if created {
		logrus.WithField("username", cfg.AdminUsername).Info("Admin account created")
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	defer redisClient.Close()

	// Test Redis connection
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	store, publicDir := newStore(ctx, cfg)

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.MailHost != "" {
		mailer = mail.NewSMTPMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
	} else {
		logrus.Warn("MAIL_HOST not set, codes are only logged")
	}

	tokens := utils.NewTokenIssuer(utils.TokenSecrets{
		UserAccess:   cfg.AccessSecret,
		UserRefresh:  cfg.RefreshSecret,
		UserRegister: cfg.RegisterSecret,
		AdminAccess:  cfg.AdminAccessSecret,
		AdminRefresh: cfg.AdminRefreshSecret,
	})
	activity := service.NewActivityLog(database)
	limiter := otp.NewLimiter(redisClient, cfg.OTPMaxPerWindow, time.Duration(cfg.OTPWindowMinutes)*time.Minute)
	notifier := mail.NewNotifier(mailer)
	auth := service.NewAuthService(database, otp.NewIssuer(redisClient), limiter, notifier, tokens, activity)

	rateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.RunSweeper(ctx)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		DB:          database,
		Tokens:      tokens,
		Auth:        auth,
		Admins:      service.NewAdminAuthService(database, tokens, activity),
		Provisioner: service.NewShopProvisioner(database, store, activity),
		Activity:    activity,
		Store:       store,
		Cache:       api.NewListCache(redisClient, time.Duration(cfg.ListCacheSeconds)*time.Second),
		RateLimiter: rateLimiter,
		Metrics:     middleware.NewMetrics(),
		CORSOrigins: cfg.CORSOrigins,
		PublicDir:   publicDir,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	notifier.Wait() // Let pending code emails finish
}

// newStore picks the upload backend; disk uploads are also served under /public
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, string) {
	if cfg.StorageDriver == "s3" {
		store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.PublicBaseURL)
		if err != nil {
			logrus.Fatalf("failed to configure S3 storage: %v", err)
		}
		return store, ""
	}
	disk := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
	return disk, disk.Root()
}
