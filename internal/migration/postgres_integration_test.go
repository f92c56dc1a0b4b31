package migration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"testing/fstest"

	_ "github.com/lib/pq"
)

// Set POSTGRES_TEST_URL to run, e.g.
// POSTGRES_TEST_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS test_things")
		db.Close()
	})
	return db
}

func TestPostgresApply(t *testing.T) {
	db := setupPostgresTestDB(t)
	ctx := context.Background()
	files := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE test_things (id SERIAL PRIMARY KEY);")},
	}
	r := NewRunner(db, files, DialectPostgres)

	if _, err := r.Apply(ctx, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	v, err := r.CurrentVersion(ctx)
	if err != nil || v != 1 {
		t.Errorf("CurrentVersion() = %d, %v; want 1", v, err)
	}
}
