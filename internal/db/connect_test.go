package db

import (
	"context"
	"testing"
)

func TestOpen_SQLiteMemoryCreatesSchema(t *testing.T) {
	ctx := context.Background()
	h, err := Open(ctx, DriverSQLite, "file:connect_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()
	for _, table := range []string{"students", "event_log"} {
		var name string
		if err := h.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=$1`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
	// schema creation is idempotent
	if err := ensureSchema(ctx, h, DriverSQLite); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Driver("oracle"), ""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
