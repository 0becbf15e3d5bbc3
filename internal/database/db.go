package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver.
	DriverCGO = "sqlite3"
	// DriverPure is the modernc.org/sqlite driver.
	DriverPure = "sqlite"
)

// Open opens sqlite with sensible defaults. An empty driver selects DriverCGO.
func Open(driver, path string) (*sql.DB, error) {
	dsn, err := DSN(driver, path)
	if err != nil {
		return nil, err
	}
	if driver == "" {
		driver = DriverCGO
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// DSN builds the connection string for driver. The two drivers spell pragmas differently.
func DSN(driver, path string) (string, error) {
	switch driver {
	case "", DriverCGO:
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path), nil
	case DriverPure:
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path), nil
	default:
		return "", fmt.Errorf("unknown sqlite driver %q", driver)
	}
}

// WithTx runs fn in a transaction.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Now returns UTC time, the resolution contacts are ordered by.
func Now() time.Time {
	return time.Now().UTC()
}
