package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/ryanhamamura/elegant/content"
	"github.com/ryanhamamura/elegant/internal/assets"
	"github.com/ryanhamamura/elegant/internal/config"
	"github.com/ryanhamamura/elegant/internal/metrics"
	"github.com/ryanhamamura/elegant/internal/pages/admin"
	"github.com/ryanhamamura/elegant/internal/pages/contact"
	"github.com/ryanhamamura/elegant/internal/pages/home"
	"github.com/ryanhamamura/elegant/live"
	"github.com/ryanhamamura/elegant/livenats"
	"github.com/spf13/cobra"
)

func newServeCommand(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := cfg.ZerologLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	if cfg.Server.DevMode {
		return live.NewConsoleLogger(level), nil
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level), nil
}

func newSessionManager(cfg config.SessionConfig) (*scs.SessionManager, func(), error) {
	if cfg.DBPath == "" {
		sm := scs.New()
		if cfg.Lifetime > 0 {
			sm.Lifetime = cfg.Lifetime
		}
		return sm, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open session db: %w", err)
	}
	sm, err := live.NewSQLiteSessionManager(db, cfg.Lifetime, cfg.CleanupInterval)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sm, func() { _ = db.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := newSessionManager(cfg.Session)
	if err != nil {
		return err
	}
	defer closeSessions()

	opts := live.Options{
		DevMode:             cfg.Server.DevMode,
		ServerAddress:       cfg.Server.Address,
		Logger:              &logger,
		DocumentTitle:       cfg.Document.Title,
		DocumentDescription: cfg.Document.Description,
		Plugins:             []live.Plugin{assets.Plugin},
		SessionManager:      sessions,
		ContextTTL:          cfg.Live.ContextTTL,
		ActionRateLimit:     live.RateLimitConfig{Rate: cfg.Live.ActionRate, Burst: cfg.Live.ActionBurst},
	}

	if cfg.PubSub.DataDir != "" {
		bus, err := livenats.New(ctx, cfg.PubSub.DataDir)
		if err != nil {
			return err
		}
		opts.PubSub = bus
		logger.Info().Str("dir", cfg.PubSub.DataDir).Msg("embedded nats started")
	}

	m := metrics.New()
	client := content.NewClient(
		content.ClientConfig{Origin: cfg.Backend.Origin, Timeout: cfg.Backend.Timeout},
		content.WithLogger(logger.With().Str("component", "content").Logger()),
		content.WithObserver(m),
	)
	contactDeps := contact.Deps{Submitter: client, Metrics: m}

	a := live.New()
	a.Config(opts)
	a.Handle("GET /metrics", m.Handler())
	a.Page("/", home.Page(home.Deps{
		Loader:   client,
		ImageURL: client.ImageURL,
		Contact:  contactDeps,
		Metrics:  m,
	}))
	a.Page("/query", contact.Page(contactDeps))
	a.Page("/admin/queries", admin.Page(admin.Deps{Lister: client}))

	logger.Info().Str("backend", client.Origin()).Msg("content api")
	return a.Start()
}
