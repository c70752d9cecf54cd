package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/notify"
	"github.com/example/tablebook/internal/postgres"
)

// app wires the engine against Postgres for the CLI commands.
type app struct {
	cfg        config.Config
	db         *db.DB
	store      *postgres.Store
	engine     *booking.Engine
	avail      *booking.Availability
	dispatcher *notify.Dispatcher
	log        *zap.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	st := postgres.NewStore(d)
	settings := cfg.Settings()
	dispatcher := notify.NewDispatcher(notify.LogNotifier{Log: log}, log)

	return &app{
		cfg:        cfg,
		db:         d,
		store:      st,
		engine:     booking.NewEngine(st, settings, dispatcher, log),
		avail:      booking.NewAvailability(st, settings),
		dispatcher: dispatcher,
		log:        log,
	}, nil
}

func (a *app) Close() {
	a.dispatcher.Wait()
	a.db.Close()
	_ = a.log.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// parseWhen accepts RFC3339 or "2006-01-02 15:04" in UTC.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: use RFC3339 or '2006-01-02 15:04'", s)
	}
	return t.UTC(), nil
}
