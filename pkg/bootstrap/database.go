package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"pulsefeed/internal/config"
	"pulsefeed/internal/logger"
)

type Connector struct {
	Config *config.Config
	Logger logger.Logger
}

func NewConnector(cfg *config.Config, log logger.Logger) *Connector {
	return &Connector{
		Config: cfg,
		Logger: log,
	}
}

// InitSQLite opens the embedded database file. synchronous(FULL) keeps
// commits durable before Insert returns; the connection pool is capped at
// one so all writers funnel through a single serialized path.
func (c *Connector) InitSQLite(ctx context.Context) (*sql.DB, error) {
	dir := filepath.Dir(c.Config.Store.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)",
		c.Config.Store.Path,
		c.Config.Store.BusyTimeoutMS,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.Logger.Info("SQLite connected successfully")
	return db, nil
}

func (c *Connector) ShutdownDatabases(ctx context.Context, db *sql.DB) []error {
	var errs []error

	if db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sqlite close error: %w", err))
		}
	}

	return errs
}
