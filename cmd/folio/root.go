package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"folio/site/internal/app"
	"folio/site/internal/config"
	"folio/site/internal/export"
	"folio/site/internal/logger"
	"folio/site/internal/metrics"
	"folio/site/internal/revisions"
	"folio/site/internal/search"
	"folio/site/internal/session"
	"folio/site/internal/store"
)

var errStoreRequired = errors.New("DATABASE_URL is not set")

func newRootCommand() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Personal law and policy publishing site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")

	env := func() (*environment, error) {
		cfg := config.Load()
		if debug {
			cfg.LogLevel = "debug"
		}
		return newEnvironment(cfg)
	}
	root.AddCommand(
		newServeCommand(env),
		newMigrateCommand(env),
		newImportCommand(env),
		newBackupCommand(env),
		newReindexCommand(env),
		newHashPasswordCommand(),
	)
	return root
}

// environment holds the process-wide resources a command may need. Every
// command closes it when done.
type environment struct {
	cfg     config.Config
	log     logger.Logger
	db      *sqlx.DB
	closers []func()
}

func newEnvironment(cfg config.Config) (*environment, error) {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, log: log}, nil
}

func (e *environment) onClose(fn func()) {
	e.closers = append(e.closers, fn)
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	_ = e.log.Sync()
}

// connectDB builds the pool once without dialing. It returns nil without
// error when no database is configured.
func (e *environment) connectDB() (*sqlx.DB, error) {
	if e.db != nil || !e.cfg.StoreConfigured() {
		return e.db, nil
	}
	db, err := store.Connect(e.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	e.db = db
	e.onClose(func() { _ = db.Close() })
	return db, nil
}

// openDB is connectDB plus a ping, for commands that cannot do anything
// useful without the database.
func (e *environment) openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := e.connectDB()
	if err != nil || db == nil {
		return db, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func (e *environment) requireDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := e.openDB(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errStoreRequired
	}
	return db, nil
}

// service wires the application service over whatever backends are
// configured. Missing optional backends are left out rather than failing,
// and the database pool is not dialed here.
func (e *environment) service(m *metrics.Metrics) (*app.Service, error) {
	db, err := e.connectDB()
	if err != nil {
		return nil, err
	}
	deps := app.Deps{
		Config:  e.cfg,
		PDF:     export.Chrome{},
		Metrics: m,
		Logger:  e.log,
	}

	if db != nil {
		pg := store.NewPostgresStore(db)
		deps.Store = pg
		deps.Sessions = session.NewPostgresStore(pg)
	}
	if strings.TrimSpace(e.cfg.RedisURL) != "" {
		redisStore, err := session.NewRedisStore(e.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		e.onClose(func() { _ = redisStore.Close() })
		deps.Sessions = redisStore
		e.log.Info("Using Redis for admin sessions")
	}
	if strings.TrimSpace(e.cfg.MeiliURL) != "" {
		meili := search.NewMeili(e.cfg.MeiliURL, e.cfg.MeiliMasterKey, e.log)
		e.onClose(meili.Close)
		deps.SearchBackend = meili
	}
	if strings.TrimSpace(e.cfg.RevisionsDir) != "" {
		deps.Revisions = revisions.New(e.cfg.RevisionsDir)
	}

	svc := app.New(deps)
	e.onClose(svc.Wait)
	return svc, nil
}
