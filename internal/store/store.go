// Package store provides the result database used by expkit runs.
// Each schema lives in its own SQLite database file under the result
// directory; the wrapper adds statement logging, schema reset, vacuum,
// and transaction helpers around database/sql.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store wraps a single-schema SQLite database.
type Store struct {
	db     *sql.DB
	schema string
	path   string
	log    *slog.Logger
}

// Open opens (creating if necessary) the database for the given schema
// under dir. A nil logger disables statement logging.
func Open(dir, schema string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create result directory: %w", err)
	}

	path := filepath.Join(dir, schema+".db")
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, schema: schema, path: path, log: log}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Schema returns the schema name this store was opened with.
func (s *Store) Schema() string {
	return s.schema
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Exec runs a statement, logging it at debug level.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.log.Debug("exec", "schema", s.schema, "query", query)
	return s.db.ExecContext(ctx, query, args...)
}

// Query runs a query, logging it at debug level.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	s.log.Debug("query", "schema", s.schema, "query", query)
	return s.db.QueryContext(ctx, query, args...)
}

// QueryRow runs a single-row query, logging it at debug level.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	s.log.Debug("query", "schema", s.schema, "query", query)
	return s.db.QueryRowContext(ctx, query, args...)
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back when fn returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after %v: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Reset reapplies the schema DDL. When drop is set, every user table is
// dropped first, discarding all recorded data.
func (s *Store) Reset(ctx context.Context, drop bool) error {
	if drop {
		tables, err := s.userTables(ctx)
		if err != nil {
			return err
		}
		for _, table := range tables {
			s.log.Info("dropping table", "schema", s.schema, "table", table)
			if _, err := s.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table)); err != nil {
				return fmt.Errorf("dropping table %s: %w", table, err)
			}
		}
	}
	return s.initSchema(ctx)
}

// Vacuum rebuilds the database file, reclaiming unused space.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.Exec(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) userTables(ctx context.Context) ([]string, error) {
	rows, err := s.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
