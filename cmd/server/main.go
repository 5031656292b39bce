package main // Entry point of the TV show API server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/tv-show-library/internal/config"
	"github.com/iliyamo/tv-show-library/internal/database"
	"github.com/iliyamo/tv-show-library/internal/handler"
	"github.com/iliyamo/tv-show-library/internal/logger"
	"github.com/iliyamo/tv-show-library/internal/omdb"
	"github.com/iliyamo/tv-show-library/internal/queue"
	"github.com/iliyamo/tv-show-library/internal/ratelimit"
	"github.com/iliyamo/tv-show-library/internal/repository"
	"github.com/iliyamo/tv-show-library/internal/router"
	"github.com/iliyamo/tv-show-library/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Environment: cfg.Env, Level: logger.ParseLevel(cfg.LogLevel)})
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
		return err
	}

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn("redis unavailable, using in-process limiter and no response cache", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	rl := config.LoadRateLimitConfig()
	local := ratelimit.New(rl.RefillPerSecond(), rl.Capacity, rl.TTL)
	defer local.Stop()

	var verifier handler.TitleVerifier = omdb.AcceptAll{}
	if cfg.OMDb.Enabled {
		verifier = omdb.NewClient(cfg.OMDb.BaseURL, cfg.OMDb.APIKey, cfg.OMDb.Timeout, log)
	}
	events := service.NewEventPublisher(cfg.Event.BrokerURL, log)

	if cfg.Event.Consume && cfg.Event.BrokerURL != "" {
		c := &queue.Consumer{URL: cfg.Event.BrokerURL, LogDir: cfg.Event.LogDir, Log: log}
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("shows consumer stopped", "error", err)
			}
		}()
	}

	e := router.New(router.Deps{
		DB:        db,
		Shows:     handler.NewShowHandler(repository.NewShowRepo(db), verifier, events, log),
		Auth:      handler.NewAuthHandler(cfg.Auth),
		AuthCfg:   cfg.Auth,
		Cache:     config.LoadCacheConfig(),
		RateLimit: rl,
		Redis:     rdb,
		Local:     local,
		Log:       log,
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DB.Driver,
			"auth", cfg.Auth.Enabled(), "redis", rdb != nil, "events", cfg.Event.BrokerURL != "")
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
