package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all up migrations found in the migrationsPath directory.
func RunMigrations(driver, dbPath, migrationsPath string) error {
	dsn, err := DSN(driver, dbPath)
	if err != nil {
		return err
	}
	scheme := DriverCGO
	if driver == DriverPure {
		scheme = DriverPure
	}
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("%s://%s", scheme, dsn),
	)
	if err != nil {
		return err
	}
	defer m.Close()
	return up(m)
}

// RunMigrationsWithDB applies the embedded migrations to an open database.
func RunMigrationsWithDB(db *sql.DB, driver string) error {
	var (
		inst migratedb.Driver
		err  error
	)
	switch driver {
	case "", DriverCGO:
		driver = DriverCGO
		inst, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case DriverPure:
		inst, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unknown sqlite driver %q", driver)
	}
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, driver, inst)
	if err != nil {
		return err
	}
	// m.Close would close db, which the caller still owns.
	return up(m)
}

func up(m *migrate.Migrate) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
