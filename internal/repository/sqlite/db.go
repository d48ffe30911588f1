package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCgo is github.com/mattn/go-sqlite3.
	DriverCgo = "sqlite3"
	// DriverPure is modernc.org/sqlite.
	DriverPure = "sqlite"
)

// Open opens the database file at path with the named driver. A single
// connection is kept so that sqlite serializes all writes.
func Open(driver, path string) (*sql.DB, error) {
	var dsn string
	switch driver {
	case DriverCgo:
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	case DriverPure:
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	default:
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}
