package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/appointment-intake/internal/config"
	"github.com/harentsoaR/appointment-intake/internal/handlers"
	"github.com/harentsoaR/appointment-intake/internal/middleware"
	"github.com/harentsoaR/appointment-intake/internal/services"
	"github.com/harentsoaR/appointment-intake/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		appointments store.AppointmentStore
		users        store.UserStore
	)
	switch cfg.StorageDriver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = client.Ping(connectCtx, nil)
		}
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn().Err(err).Msg("MongoDB disconnect failed")
			}
		}()

		db := client.Database(cfg.MongoDatabase)
		userStore := store.NewMongoUserStore(db)
		if err := userStore.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
		}
		appointments = store.NewMongoAppointmentStore(db)
		users = userStore
		log.Info().Str("database", cfg.MongoDatabase).Msg("Successfully connected to MongoDB")
	default:
		appointments = store.NewMemoryAppointmentStore()
		users = store.NewMemoryUserStore()
		log.Info().Msg("Using in-memory storage; data is lost on restart")
	}

	// --- Sessions ---
	var sessionStore services.SessionStore
	switch cfg.SessionDriver {
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		sessionStore = services.NewRedisSessionStore(rdb)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Sessions stored in Redis")
	default:
		mem := services.NewMemorySessionStore()
		go mem.RunJanitor(ctx, 15*time.Minute)
		sessionStore = mem
	}

	// --- Backup ---
	var backupStore services.BackupStore = services.NopBackup{}
	if cfg.BackupDriver == config.DriverDrive {
		drive, err := services.NewDriveBackup(ctx, services.DriveCredentials{
			ClientEmail: cfg.GoogleClientEmail,
			PrivateKey:  cfg.GooglePrivateKey,
			FolderID:    cfg.GoogleDriveFolderID,
		})
		if err != nil {
			// the backup is optional; the service runs without it
			log.Error().Err(err).Msg("Google Drive backup disabled")
		} else {
			backupStore = drive
			log.Info().Str("folder", cfg.GoogleDriveFolderID).Msg("Google Drive backup enabled")
		}
	}
	notifier := services.NewBackupNotifier(backupStore, cfg.BackupTimeout)

	// --- Services ---
	creds := services.NewCredentialService(users, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword)
	if err := creds.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to provision the default admin")
	}
	sessions := services.NewSessionManager(creds, sessionStore, cfg.JWTSecret, cfg.SessionTTL)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)

	h := handlers.NewHandler(appointments, creds, sessions, notifier, cfg.CookieSecure)
	r := handlers.NewRouter(h, handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.APIPort).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err := <-serveErr:
		log.Error().Err(err).Msg("Server failed, shutting down")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	notifier.Wait()
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
