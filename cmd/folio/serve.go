package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"folio/site/internal/app"
	"folio/site/internal/logger"
	"folio/site/internal/metrics"
	"folio/site/internal/store"
)

const (
	shutdownTimeout   = 10 * time.Second
	sessionPurgeEvery = time.Hour
)

func newServeCommand(env func() (*environment, error)) *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			defer e.Close()
			return serve(cmd.Context(), e, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func serve(ctx context.Context, e *environment, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer, err := newSiteServer(ctx, e, migrate)
	if err != nil {
		return err
	}
	server := httpServer.Server(e.cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("Folio listening", logger.String("addr", e.cfg.Addr), logger.String("site_url", e.cfg.SiteURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		e.log.Error("Shutdown failed", logger.Err(err))
		return err
	}
	return nil
}

// newSiteServer prepares the database and builds the HTTP server. An
// unreachable database is not fatal: pages render empty listings, writes
// fail, and /api/ready reports it until the server comes back.
func newSiteServer(ctx context.Context, e *environment, migrate bool) (*app.HTTPServer, error) {
	db, err := e.connectDB()
	if err != nil {
		return nil, err
	}
	if db == nil {
		e.log.Warn("DATABASE_URL not set, serving empty listings and refusing writes")
	} else {
		if err := db.PingContext(ctx); err != nil {
			e.log.Warn("Database unreachable at startup, skipping migrations", logger.Err(err))
		} else if migrate {
			applied, err := store.MigrateUp(db.DB)
			if err != nil {
				return nil, err
			}
			e.log.Info("Migrations checked", logger.Bool("applied", applied))
		}
		go purgeSessions(ctx, store.NewPostgresStore(db), e.log)
	}

	svc, err := e.service(metrics.New())
	if err != nil {
		return nil, err
	}
	return app.NewHTTPServer(svc)
}

// purgeSessions drops expired admin sessions from Postgres until ctx ends.
func purgeSessions(ctx context.Context, pg *store.PostgresStore, log logger.Logger) {
	ticker := time.NewTicker(sessionPurgeEvery)
	defer ticker.Stop()
	for {
		if n, err := pg.PurgeExpiredAdminSessions(ctx); err != nil {
			log.Warn("Purge admin sessions failed", logger.Err(err))
		} else if n > 0 {
			log.Info("Purged expired admin sessions", logger.Int("count", int(n)))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
