package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// DateLayout renders a calendar day the way daily_logs stores it
const DateLayout = "2006-01-02"

// RewardAmount is the fixed daily reward in points
const RewardAmount = 150

// Connect establishes a connection to the database. A DATABASE_URL
// environment variable selects PostgreSQL; otherwise a local SQLite file is
// used.
func Connect() error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "phrasebot.db")
	return ConnectSQLite(dbPath)
}

// ConnectSQLite opens a SQLite database at the given path. Tests use this
// with ":memory:".
func ConnectSQLite(path string) error {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	// Create branches table
	_, err := DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS branches (
			id %s,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create branches table: %v", err)
	}

	// Create users table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s,
			name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			branch_id INTEGER NOT NULL DEFAULT 0,
			points INTEGER NOT NULL DEFAULT 0,
			is_admin BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create phrases table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS phrases (
			id %s,
			category TEXT NOT NULL,
			situation TEXT DEFAULT '',
			korean TEXT NOT NULL,
			pronunciation TEXT DEFAULT '',
			meaning TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(korean, category)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create phrases table: %v", err)
	}

	// Create mission_logs table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS mission_logs (
			id %s,
			user_id INTEGER NOT NULL,
			sentence TEXT NOT NULL,
			result TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create mission_logs table: %v", err)
	}

	// Create daily_logs table. The uniqueness constraint is the daily reward
	// cap: at most one row per user per calendar date.
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS daily_logs (
			id %s,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			accumulated_points INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, date)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create daily_logs table: %v", err)
	}

	// Create test_results table, one row per user per month
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS test_results (
			id %s,
			user_id INTEGER NOT NULL,
			month TEXT NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			result TEXT NOT NULL,
			taken_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, month)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create test_results table: %v", err)
	}

	return nil
}
