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

	"folio/internal/database"
	"folio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
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

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns a short random suffix so concurrent test runs do not collide
// on unique columns.
func uniq() string {
	return uuid.NewString()[:8]
}

// createCategory inserts a category and removes it when the test finishes.
func createCategory(t *testing.T, db *sql.DB, title string, parentID *string) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{
		ParentID: parentID,
		Title:    title,
		Slug:     "test-" + uniq(),
	})
	if err != nil {
		t.Fatalf("create category %q: %v", title, err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// lookupFixture creates one author and one publisher for product tests.
func lookupFixture(t *testing.T, db *sql.DB) (*models.Author, *models.Publisher) {
	t.Helper()
	ls := NewLookupStore(db)
	ctx := context.Background()
	a, err := ls.CreateAuthor(ctx, "Author "+uniq())
	if err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}
	p, err := ls.CreatePublisher(ctx, "Publisher "+uniq())
	if err != nil {
		t.Fatalf("CreatePublisher: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM authors WHERE id = $1", a.ID)
		db.Exec("DELETE FROM publishers WHERE id = $1", p.ID)
	})
	return a, p
}
