package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the SQL database connection
type Database struct {
	*sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string) (*Database, error) {
	// Create the directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	// Open the database
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return &Database{db}, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	// Ensure we rollback in case of error
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Create tables if they don't exist
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS mission_groups (
			id TEXT PRIMARY KEY,
			mission_id TEXT NOT NULL,
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			guide_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS travelers (
			id TEXT PRIMARY KEY,
			mission_id TEXT NOT NULL,
			group_id TEXT REFERENCES mission_groups(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS itinerary_events (
			id TEXT PRIMARY KEY,
			grupo_id TEXT NOT NULL,
			tipo TEXT NOT NULL,
			data TEXT NOT NULL,
			hora_inicio TEXT NOT NULL,
			hora_fim TEXT,
			duracao TEXT,
			titulo TEXT NOT NULL,
			subtitulo TEXT,
			localizacao TEXT,
			descricao TEXT,
			preco REAL DEFAULT 0,
			status TEXT,
			origem TEXT,
			destino TEXT,
			origem_codigo TEXT,
			destino_codigo TEXT,
			origem_hora TEXT,
			destino_hora TEXT,
			conexoes TEXT,
			motorista TEXT,
			possui_transfer BOOLEAN DEFAULT FALSE,
			transfer_data TEXT,
			transfer_hora TEXT,
			evento_referencia_id TEXT,
			passageiros TEXT,
			favorito BOOLEAN DEFAULT FALSE,
			atrasado BOOLEAN DEFAULT FALSE,
			atraso TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_itinerary_events_grupo ON itinerary_events(grupo_id)`,
		`CREATE INDEX IF NOT EXISTS idx_itinerary_events_data ON itinerary_events(grupo_id, data)`,
		`CREATE INDEX IF NOT EXISTS idx_travelers_mission ON travelers(mission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_mission_groups_mission ON mission_groups(mission_id)`,
	}

	// Execute migrations
	for i, migration := range migrations {
		if _, err := tx.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration #%d: %v\nSQL: %s", i+1, err, migration)
		}
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %v", err)
	}

	return nil
}
