package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/bookmymovie/booking-service/internal/application/booking"
	"github.com/bookmymovie/booking-service/internal/config"
	"github.com/bookmymovie/booking-service/internal/infrastructure/db/postgres"
	rabbitpub "github.com/bookmymovie/booking-service/internal/infrastructure/messaging/rabbitmq"
	redisnotify "github.com/bookmymovie/booking-service/internal/infrastructure/redis"
	"github.com/bookmymovie/booking-service/internal/logger"
	"github.com/bookmymovie/booking-service/internal/transport/http/handlers"
	authmw "github.com/bookmymovie/booking-service/internal/transport/http/middleware"
	"github.com/bookmymovie/booking-service/internal/transport/http/router"
)

// sysClock implements booking.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Notifier  *redisnotify.Notifier
	Publisher *rabbitpub.Publisher
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	u, _ := url.Parse(cfg.DatabaseURL)
	zlog.Info().
		Str("db_user", u.User.Username()).
		Str("db_host", u.Host).
		Str("db_db", u.Path).
		Msg("db config loaded")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	app := NewApp(cfg, db)
	defer func() {
		if app.Publisher != nil {
			_ = app.Publisher.Close()
		}
		if app.Notifier != nil {
			_ = app.Notifier.Close()
		}
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

func NewApp(cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	repo := postgres.New(db)

	var notifier *redisnotify.Notifier
	var poolNotifier booking.Notifier

	if cfg.RedisURL != "" {
		n, err := redisnotify.New(cfg.RedisURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("redis notifier init failed")
		}
		notifier = n
		poolNotifier = n
		zlog.Info().Msg("seat update notifier ready")
	} else {
		zlog.Warn().Msg("REDIS_URL empty: seat updates will not be broadcast")
	}

	var rabbit *rabbitpub.Publisher
	var pub booking.EventPublisher = booking.NoopPublisher{}

	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbit = p
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: booking events will not be published")
	}

	// 2) Application
	pool := booking.NewPool(repo, sysClock{}, poolNotifier, pub, cfg.SeatLockTTL)

	// 3) Transport
	bh := handlers.NewBookingsHandler(pool, repo)
	sh := handlers.NewSeatsHandler(repo)
	z := handlers.NewHealthHandler()
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)

	// 4) Router
	httpHandler := router.New(bh, sh, z, auth, cfg)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Notifier:  notifier,
		Publisher: rabbit,
	}
}
