package testgen

import (
	"context"
	"testing"

	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/database"
	"github.com/shishobooks/fb2catalog/pkg/migrations"
	"github.com/uptrace/bun"
)

// NewDB returns a migrated in-memory catalog that is closed when the test
// completes.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if _, err := migrations.BringUpToDate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *bun.DB, table string) int {
	t.Helper()

	count, err := db.NewSelect().TableExpr("?", bun.Ident(table)).Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}
