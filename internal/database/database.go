package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var DB *sql.DB

// InitDB opens and pings the database connection. The caller decides what a
// failure means: the server falls back to local-only mode instead of dying.
func InitDB(host, port, user, password, dbname, sslmode, dbSchemaPath string) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if dbSchemaPath != "" {
		if err := applySchema(db, dbSchemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	DB = db
	return db, nil
}

// applySchema reads and executes the schema file.
func applySchema(db *sql.DB, schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	return nil
}

// GetDB returns the database connection pool, nil in local-only mode.
func GetDB() *sql.DB {
	return DB
}
