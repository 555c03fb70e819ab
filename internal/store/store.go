package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrInvalidPage signals a page request with a non-positive index or size.
	ErrInvalidPage = errors.New("invalid page request")
	// ErrConstraint wraps a write rejected by the database (foreign key, not null, length, unique).
	ErrConstraint = errors.New("constraint violation")
)

// Store provides catalogue persistence over a relational database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// New sets up a Store using the provided database handle and SQL dialect.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// rebind rewrites $N placeholders for the configured dialect.
func (s *Store) rebind(query string) string {
	return s.dialect.rebind(query)
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.runTx(ctx, nil, fn)
}

// withSnapshot runs fn inside a read transaction whose statements all see the same data.
func (s *Store) withSnapshot(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.runTx(ctx, s.dialect.snapshotOptions(), fn)
}

func (s *Store) runTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execAffected(ctx context.Context, ex execer, query string, args ...any) (bool, error) {
	res, err := ex.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// classify tags database constraint failures with ErrConstraint and leaves
// every other error untouched.
func classify(err error) error {
	if err == nil || !isConstraintViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConstraint, err)
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23 is integrity constraint violation, 22001 is string_data_right_truncation.
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "23" || pgErr.Code == "22001")
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
