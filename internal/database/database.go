package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the question/results database and creates the schema if needed.
// driver is "sqlite3" or "postgres".
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite3" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers; a single connection also
		// keeps an in-memory database alive across queries
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	dateColumn := "date TIMESTAMP NOT NULL"
	if db.DriverName() == "postgres" {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		dateColumn = "date TIMESTAMPTZ NOT NULL"
	}

	statements := []struct {
		name  string
		query string
	}{
		{"questions", `
			CREATE TABLE IF NOT EXISTS questions (
				` + idColumn + `,
				domain TEXT NOT NULL,
				question TEXT NOT NULL,
				option_a TEXT NOT NULL,
				option_b TEXT NOT NULL,
				option_c TEXT NOT NULL,
				option_d TEXT NOT NULL,
				correct_option TEXT NOT NULL,
				explanation TEXT
			)`},
		{"questions domain index", `CREATE INDEX IF NOT EXISTS idx_questions_domain ON questions(domain)`},
		{"results", `
			CREATE TABLE IF NOT EXISTS results (
				` + idColumn + `,
				` + dateColumn + `,
				score INTEGER NOT NULL,
				total INTEGER NOT NULL
			)`},
		{"results date index", `CREATE INDEX IF NOT EXISTS idx_results_date ON results(date DESC)`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}
