package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/config"
	"github.com/kashvishop/storefront/internal/kernel"
	"github.com/kashvishop/storefront/pkg/database"
	"github.com/kashvishop/storefront/pkg/logger"
	"github.com/kashvishop/storefront/pkg/schedule"
	"github.com/kashvishop/storefront/pkg/session"
	"github.com/kashvishop/storefront/pkg/workerpool"
)

const shutdownTimeout = 15 * time.Second

// Start connects the database and session store, then serves until SIGINT or
// SIGTERM. In-flight requests get shutdownTimeout to finish.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	store, closeStore, err := SessionStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return Serve(ctx, ":"+config.AppPort(), db, store)
}

// Serve runs the storefront on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, db *gorm.DB, store session.Store) error {
	k := kernel.New(db, store)

	pool := workerpool.New("housekeeping", 2)
	defer pool.Shutdown()

	jobs := schedule.New(pool)
	if err := Housekeeping(jobs, db, k, store); err != nil {
		return err
	}
	jobs.Start(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("storefront shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// SessionStore picks the store named by SESSION_DRIVER. The returned func
// releases it.
func SessionStore(ctx context.Context) (session.Store, func(), error) {
	if config.SessionDriver() != "redis" {
		return session.NewMemoryStore(), func() {}, nil
	}

	rdb, err := session.ConnectRedis(ctx, config.RedisAddr(), config.RedisPassword())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("sessions stored in redis", "addr", config.RedisAddr())
	return session.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
}
