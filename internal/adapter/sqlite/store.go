package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time checks: Store implements every persistence port.
var (
	_ domain.VisitorRepository   = (*Store)(nil)
	_ domain.SosRepository       = (*Store)(nil)
	_ domain.ComplaintRepository = (*Store)(nil)
	_ domain.AmenityRepository   = (*Store)(nil)
	_ domain.BookingRepository   = (*Store)(nil)
	_ domain.ProviderRepository  = (*Store)(nil)
	_ domain.LedgerRepository    = (*Store)(nil)
	_ domain.RoleResolver        = (*Store)(nil)
)

// Store implements the persistence ports using SQLite. Every status change
// writes its ledger row in the same transaction as the entity update.
type Store struct {
	db          *sql.DB
	fullOverlap bool
}

// Option configures a Store.
type Option func(*Store)

// WithFullOverlapCheck makes the booking conflict query detect any interval
// overlap, including an existing booking that fully contains the requested
// window. The default endpoint-containment check misses that case.
func WithFullOverlapCheck() Option {
	return func(s *Store) { s.fullOverlap = true }
}

// New opens a SQLite database, runs migrations, and returns a ready store.
func New(dataSourceName string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db, opts...)
}

// NewFromDB wraps an existing database connection, runs migrations, and
// returns a ready store. Use this when the *sql.DB has been pre-configured
// (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB, opts ...Option) (*Store, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for use by other adapters
// (e.g., river).
func (s *Store) DB() *sql.DB {
	return s.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeFormat, s)
	return t
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertLog appends the ledger row for a status change. It runs on the same
// transaction (or connection) as the entity write.
func insertLog(ctx context.Context, ex execer, entry domain.StatusLogEntry) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO status_log (entity_kind, entity_id, status, message, actor_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(entry.EntityKind), entry.EntityID, string(entry.Status),
		entry.Message, entry.ActorID, entry.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting status log: %w", err)
	}
	return nil
}

// History returns the full status ledger of an entity, oldest first.
func (s *Store) History(ctx context.Context, kind domain.Kind, entityID string) ([]domain.StatusLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_kind, entity_id, status, message, actor_id, created_at
		 FROM status_log WHERE entity_kind = ? AND entity_id = ? ORDER BY id`,
		string(kind), entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing status log: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusLogEntry
	for rows.Next() {
		var e domain.StatusLogEntry
		var entityKind, status, createdAt string
		if err := rows.Scan(&e.ID, &entityKind, &e.EntityID, &status, &e.Message, &e.ActorID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning status log row: %w", err)
		}
		e.EntityKind = domain.Kind(entityKind)
		e.Status = domain.Status(status)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
