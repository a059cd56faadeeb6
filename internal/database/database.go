package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the sqlite-backed contractor and job store
type Store struct {
	db *sql.DB
}

// Open creates the parent directory if needed, opens the database with
// the usual pragmas and runs migrations. Transactions take the write lock
// on BEGIN so overlapping writers queue on the busy timeout.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return New(db), nil
}

// New wraps an already migrated database
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS contractors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		skills TEXT NOT NULL DEFAULT '[]',
		rating REAL DEFAULT 0,
		completed_jobs INTEGER DEFAULT 0,
		pending_jobs INTEGER DEFAULT 0,
		active_jobs INTEGER DEFAULT 0,
		total_spent REAL DEFAULT 0,
		availability TEXT DEFAULT '',
		lat REAL,
		lng REAL,
		min_budget REAL DEFAULT 0,
		max_budget REAL DEFAULT 0,
		years_experience REAL DEFAULT 0,
		cancellation_rate REAL DEFAULT 0,
		on_time_rate REAL DEFAULT 0,
		rates TEXT NOT NULL DEFAULT '{}',
		past_jobs TEXT NOT NULL DEFAULT '[]',
		ai_score REAL DEFAULT 0,
		ai_scores TEXT NOT NULL DEFAULT '{}',
		ai_version INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CHECK(availability IN ('', 'Available', 'Limited', 'Busy', 'Unavailable'))
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT DEFAULT '',
		work_type TEXT NOT NULL,
		land_size REAL DEFAULT 0,
		location TEXT DEFAULT '',
		lat REAL,
		lng REAL,
		required_skills TEXT NOT NULL DEFAULT '[]',
		budget REAL DEFAULT 0,
		shortlist TEXT NOT NULL DEFAULT '[]',
		shortlist_generated_at DATETIME,
		selected_contractor_id TEXT DEFAULT '',
		was_ai_selected INTEGER,
		ai_success_rate REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_contractors_ai_score ON contractors(ai_score);
	CREATE INDEX IF NOT EXISTS idx_jobs_work_type ON jobs(work_type);
	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	`

	_, err := db.Exec(schema)
	return err
}
