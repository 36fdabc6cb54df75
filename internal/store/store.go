package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	x       *sqlx.DB
	dialect string
	seq     *sequenceCounter
}

// Open connects to the database and creates the schema. driver is
// DriverSQLite or DriverPostgres; an empty driver means SQLite.
func Open(driver, dsn string) (*Store, error) {
	ctx := context.Background()

	var drvName, dia, bindName string
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		drvName, dia, bindName = "sqlite", dialect.SQLite, "sqlite3"
	case DriverPostgres, "pgx", "pg":
		drvName, dia, bindName = "pgx", dialect.Postgres, "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dia == dialect.SQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := ensureSchema(ctx, db, dia); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, x: sqlx.NewDb(db, bindName), dialect: dia}
	seq, err := newSequenceCounter(ctx, s)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.seq = seq
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the connection.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SubmissionRepo returns a SubmissionRepo backed by this store.
func (s *Store) SubmissionRepo() SubmissionRepo {
	return &submissionRepo{s: s}
}

// MaterialRepo returns a MaterialRepo backed by this store.
func (s *Store) MaterialRepo() MaterialRepo {
	return &materialRepo{s: s}
}

// SkillRepo returns a SkillRepo backed by this store.
func (s *Store) SkillRepo() SkillRepo {
	return &skillRepo{s: s}
}

// StudentRepo returns a StudentRepo backed by this store.
func (s *Store) StudentRepo() StudentRepo {
	return &studentRepo{s: s}
}

// ConfigRepo returns a ConfigRepo backed by this store.
func (s *Store) ConfigRepo() ConfigRepo {
	return &configRepo{s: s}
}

// LessonRepo returns a LessonRepo backed by this store.
func (s *Store) LessonRepo() LessonRepo {
	return &lessonRepo{s: s}
}

// SnapshotRepo returns a SnapshotRepo backed by this store.
func (s *Store) SnapshotRepo() SnapshotRepo {
	return &snapshotRepo{s: s}
}

// builder starts a statement in the store's dialect.
func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func exec(ctx context.Context, e execer, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	return e.ExecContext(ctx, query, args...)
}

// selectAll scans every row of q into dest, a pointer to a slice.
func (s *Store) selectAll(ctx context.Context, dest any, q entsql.Querier) error {
	query, args := q.Query()
	return s.x.SelectContext(ctx, dest, query, args...)
}

// get scans the first row of q into dest. It returns ErrNotFound when the
// query yields no rows.
func (s *Store) get(ctx context.Context, dest any, q entsql.Querier) error {
	query, args := q.Query()
	err := s.x.GetContext(ctx, dest, query, args...)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.x.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. TBRITE_DB environment variable
// 2. $XDG_DATA_HOME/tbrite/tbrite.db
// 3. ~/.local/share/tbrite/tbrite.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TBRITE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "tbrite", "tbrite.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
