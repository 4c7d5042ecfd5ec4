package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"

	"issue-analyze-service/config"
)

// Database represents the database connection
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection with exponential backoff retry
	maxAttempts := cfg.DBConnectAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	waitInterval := 1 * time.Second
	for attempt := 1; ; attempt++ {
		if err := db.Ping(); err == nil {
			break
		} else if attempt >= maxAttempts {
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempt, err)
		} else {
			log.WithError(err).Warnf("database connection failed, retrying in %v", waitInterval)
		}
		time.Sleep(waitInterval)
		waitInterval *= 2
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Database{db: db}, nil
}

// GetDB exposes the underlying handle.
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// CreateAdminsTable creates the admins table if it doesn't exist
func (d *Database) CreateAdminsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS admins (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		department VARCHAR(64) NOT NULL,
		role VARCHAR(64) NOT NULL DEFAULT 'admin',
		created_by VARCHAR(255) DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_admins_email (email),
		INDEX idx_admins_department (department)
	)`

	_, err := d.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create admins table: %w", err)
	}
	return nil
}
