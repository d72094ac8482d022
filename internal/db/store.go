package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/Mindtrack/internal/logging"
	"github.com/soaringjerry/Mindtrack/internal/services"
)

// Store is everything the services persist through.
type Store interface {
	services.AssessmentStore
	services.MoodStore
	services.ActivityStore
	services.ScheduleStore
	Close() error
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Options struct {
	Backend       string
	SQLitePath    string
	PostgresDSN   string
	MigrationsDir string
}

// Open connects to the configured backend and brings its schema up to date.
func Open(ctx context.Context, opts Options, log logging.Logger) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite, "":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		if opts.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(opts.SQLitePath))
		return openSQL(ctx, "sqlite3", dsn, opts.MigrationsDir, log)
	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		return openSQL(ctx, "postgres", opts.PostgresDSN, opts.MigrationsDir, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func openSQL(ctx context.Context, driver, dsn, migrationsDir string, log logging.Logger) (*SQLStore, error) {
	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// Serialize access through a single connection.
		conn.SetMaxOpenConns(1)
	}
	store, err := NewSQLStore(conn, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	applied, err := RunMigrations(ctx, conn, migrationsDir)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Infof("%s store: applied migrations %v", driver, applied)
	}
	return store, nil
}
