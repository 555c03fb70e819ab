package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"musiccatalog/internal/config"
	"musiccatalog/internal/store"
)

const (
	pingTimeout    = 5 * time.Second
	maxWait        = 30 * time.Second
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Open establishes a database connection for the configured driver and
// retries until the instance responds.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, store.Dialect, error) {
	dialect, err := store.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, 0, err
	}

	dsn := cfg.DSN()
	if dialect == store.SQLite {
		dsn = SQLiteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("open database: %w", err)
	}
	configurePool(db, dialect, cfg)

	if err := ping(ctx, db, maxWait); err != nil {
		_ = db.Close()
		return nil, 0, err
	}

	return db, dialect, nil
}

// SQLiteDSN turns a file path into a modernc.org/sqlite DSN with foreign keys
// enforced and a busy timeout on every connection.
func SQLiteDSN(path string) string {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func configurePool(db *sql.DB, dialect store.Dialect, cfg config.DatabaseConfig) {
	// SQLite serialises writers; a single connection also keeps pragmas and
	// in-memory databases consistent.
	if dialect == store.SQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}
}

func ping(ctx context.Context, db *sql.DB, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return nil
		}

		// Respect caller cancellation.
		if ctx.Err() != nil {
			break
		}

		if time.Now().After(deadline) {
			break
		}

		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return fmt.Errorf("ping database: %w", lastErr)
}
