// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"forum/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching config.Load.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "forum")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "forum")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns name with a random suffix so parallel runs do not collide.
func uniq(name string) string {
	return name + "-" + uuid.NewString()[:8]
}

// cleanUsers removes test users and everything they authored. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, u := range usernames {
		db.Exec(`DELETE FROM comments WHERE author_id IN (SELECT id FROM users WHERE username = $1)
			OR topic_id IN (SELECT t.id FROM topics t JOIN users u ON u.id = t.author_id WHERE u.username = $1)
			OR topic_id IN (SELECT t.id FROM topics t JOIN categories c ON c.id = t.category_id
				JOIN users u ON u.id = c.author_id WHERE u.username = $1)`, u)
		db.Exec(`DELETE FROM topics WHERE author_id IN (SELECT id FROM users WHERE username = $1)
			OR category_id IN (SELECT c.id FROM categories c JOIN users u ON u.id = c.author_id WHERE u.username = $1)`, u)
		db.Exec(`DELETE FROM categories WHERE author_id IN (SELECT id FROM users WHERE username = $1)`, u)
		db.Exec(`DELETE FROM users WHERE username = $1`, u)
	}
}
