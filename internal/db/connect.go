// Package db handles opening and migrating herald's sqlite database.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a sqlite DSN with foreign keys and WAL journaling enabled.
// The in-memory path is passed through untouched for tests.
func DSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return fmt.Sprintf("file:%s?_fk=1&_journal_mode=WAL", path)
}

// Open opens a GORM connection to the sqlite database at path, creating the
// parent directory if needed. Foreign key enforcement is switched on
// explicitly; sqlite leaves it off by default.
func Open(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("db: create data dir for %s: %w", path, err)
		}
	}
	gdb, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}
	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("db: enable foreign keys: %w", err)
	}
	return gdb, nil
}
