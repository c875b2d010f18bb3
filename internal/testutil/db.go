package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/joestump/rwdb/internal/driver"
	"github.com/joestump/rwdb/internal/driver/sqldb"
	"github.com/joestump/rwdb/internal/migrate"
)

//go:embed migrations
var migrations embed.FS

// NewTestDB creates a SQLite database file under t.TempDir, applies the
// fixture migrations and returns its path. The people table is seeded with
// Alice (30) and Bob (0).
func NewTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rwdb.db")
	d, err := sqldb.New(sqldb.SQLite)
	if err != nil {
		t.Fatalf("sqlite driver: %v", err)
	}
	db, err := d.Open(driver.Server{Name: path})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = db.Close() }()

	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		t.Fatalf("sub migrations fs: %v", err)
	}
	if err := migrate.Up(db.DB, sqldb.SQLite, sub); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return path
}

// Servers returns n server descriptors that all point at the SQLite file path.
// The first is named "primary" and the rest "replica-<i>".
func Servers(path string, n int) []driver.Server {
	srvs := make([]driver.Server, n)
	for i := range srvs {
		host := "primary"
		if i > 0 {
			host = fmt.Sprintf("replica-%d", i)
		}
		srvs[i] = driver.Server{Host: host, Name: path}
	}
	return srvs
}
