package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the explicitly owned handle to the habit database. It is created
// once at startup, passed down to the repositories and closed on shutdown.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database and brings its schema up to date.
// For sqlite, dsn is a file path; for postgres, a connection URL.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err = sqlx.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// A single connection keeps writers from tripping over SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	case DriverPostgres:
		db, err = sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	s := &Store{db: db, driver: driver}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database ready", "driver", driver)
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Habits() *SQLHabitRepository {
	return NewSQLHabitRepository(s.db)
}

func (s *Store) Entries() *SQLEntryRepository {
	return NewSQLEntryRepository(s.db)
}
