package db

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"file path", "data/herald.db", "file:data/herald.db?_fk=1&_journal_mode=WAL"},
		{"absolute path", "/var/lib/herald/herald.db", "file:/var/lib/herald/herald.db?_fk=1&_journal_mode=WAL"},
		{"in-memory passthrough", ":memory:", ":memory:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.path); got != tt.want {
				t.Errorf("DSN(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDSN_ForeignKeysFlag(t *testing.T) {
	if dsn := DSN("x.db"); !strings.Contains(dsn, "_fk=1") {
		t.Errorf("DSN missing _fk=1: %s", dsn)
	}
}

func TestOpenAndMigrate(t *testing.T) {
	gdb, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	for _, table := range []string{"lists", "groups", "message_logs"} {
		if !gdb.Migrator().HasTable(table) {
			t.Errorf("table %q missing after migrate", table)
		}
	}

	var fk int
	if err := gdb.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Error("foreign key enforcement is off")
	}
}
