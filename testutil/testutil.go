package testutil

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/database"
	"github.com/kbukum/resultkit/logger"
)

// Start starts c and stops it when the test ends.
func Start(t testing.TB, c component.Component) {
	t.Helper()
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(ctx); err != nil {
			t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

// MemoryDSN returns a DSN for a shared-cache in-memory SQLite database
// no other test uses.
func MemoryDSN(prefix string) string {
	return "file:" + prefix + "_" + uuid.NewString() + "?mode=memory&cache=shared"
}

// OpenDB opens a fresh in-memory database, migrates models and closes it
// when the test ends.
func OpenDB(t testing.TB, models ...any) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{DSN: MemoryDSN("test")}, logger.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

// FreePort returns a TCP port on 127.0.0.1 that was free a moment ago.
func FreePort(t testing.TB) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
