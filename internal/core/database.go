// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/sessiongate/internal/config"
)

type Database struct {
	DB *sqlx.DB
}

func NewDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
) (*Database, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitteredDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

type DBTX interface {
	sqlx.ExtContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(
		ctx context.Context,
		dest any,
		query string,
		args ...any,
	) error
}

// LazyDatabase hands out a single process-wide Database, connecting on the
// first Get. A failed connect leaves the cell empty so a later Get may
// retry; once a connection is stored it is never replaced.
type LazyDatabase struct {
	connect func(ctx context.Context) (*Database, error)
	mu      sync.Mutex
	db      atomic.Pointer[Database]
}

func NewLazyDatabase(cfg config.DatabaseConfig) *LazyDatabase {
	return &LazyDatabase{
		connect: func(ctx context.Context) (*Database, error) {
			return NewDatabase(ctx, cfg)
		},
	}
}

func NewLazyDatabaseWith(
	connect func(ctx context.Context) (*Database, error),
) *LazyDatabase {
	return &LazyDatabase{connect: connect}
}

func (l *LazyDatabase) Get(ctx context.Context) (*Database, error) {
	if db := l.db.Load(); db != nil {
		return db, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if db := l.db.Load(); db != nil {
		return db, nil
	}

	db, err := l.connect(ctx)
	if err != nil {
		return nil, err
	}

	l.db.Store(db)
	return db, nil
}

// Ping connects on demand, so readiness reports a store that never came up.
func (l *LazyDatabase) Ping(ctx context.Context) error {
	db, err := l.Get(ctx)
	if err != nil {
		return StoreError("database connect", err)
	}
	return db.Ping(ctx)
}

// Close releases the connection if one was ever made.
func (l *LazyDatabase) Close() error {
	if db := l.db.Load(); db != nil {
		return db.Close()
	}
	return nil
}

// IsDuplicateKey reports a Postgres unique_violation.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func jitteredDuration(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	//nolint:gosec // G404: non-security-sensitive jitter for connection pool
	jitter := time.Duration(rand.Int64N(int64(base/7) + 1))
	return base + jitter
}
