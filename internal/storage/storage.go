package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	_ "modernc.org/sqlite"
)

// LedgerKey is the key the progress ledger blob is stored under.
const LedgerKey = "@gofriday_progress"

// LocalStore keeps the progress ledger on the device, as one JSON value in a
// SQLite key/value table.
type LocalStore struct {
	DB *sql.DB
}

// OpenLocal opens (creating if needed) the SQLite database at path. Use ":memory:"
// for a throwaway store.
func OpenLocal(path string) (*LocalStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS kv (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to initialize local store: %w", err)
	}

	return &LocalStore{DB: db}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to connect to db %s: %w", path, err)
	}

	// One writer; an in-memory database also lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("Failed to execute %q: %w", pragma, err)
		}
	}
	return db, nil
}

func (s *LocalStore) Close() error {
	return s.DB.Close()
}

// Load returns the saved ledger, or a fresh one if nothing was saved yet.
func (s *LocalStore) Load(ctx context.Context) (models.ProgressLedger, error) {
	var raw string
	err := s.DB.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", LedgerKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewLedger(), nil
	}
	if err != nil {
		return models.ProgressLedger{}, fmt.Errorf("Failed to read ledger: %w", err)
	}

	ledger := models.NewLedger()
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return models.ProgressLedger{}, fmt.Errorf("Failed to decode ledger: %w", err)
	}
	return ledger, nil
}

// Save replaces the stored ledger wholesale.
func (s *LocalStore) Save(ctx context.Context, ledger models.ProgressLedger) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("Failed to encode ledger: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
        INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `, LedgerKey, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("Failed to write ledger: %w", err)
	}
	return nil
}

func (s *LocalStore) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", LedgerKey); err != nil {
		return fmt.Errorf("Failed to clear ledger: %w", err)
	}
	return nil
}
