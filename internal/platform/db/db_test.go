package db

import (
	"path/filepath"
	"testing"
)

// The sqlite driver must be registered by this package itself; callers only
// import the opener, never the driver.
func TestOpenSqliteRegistersDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	sqlDB, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("OpenSqlite(%q): %v", path, err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("ping sqlite database: %v", err)
	}
}
