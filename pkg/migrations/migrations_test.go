package migrations_test

import (
	"context"
	"testing"

	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/database"
	"github.com/shishobooks/fb2catalog/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

func schemaObjects(t *testing.T, db *bun.DB, kind string) []string {
	t.Helper()
	names := []string{}
	err := db.NewSelect().
		TableExpr("sqlite_master").
		Column("name").
		Where("type = ?", kind).
		Where("name NOT LIKE 'sqlite_%'").
		Where("name NOT LIKE 'bun_%'").
		OrderExpr("name").
		Scan(context.Background(), &names)
	require.NoError(t, err)
	return names
}

func TestMigrations_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	group, err := migrations.BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	assert.Equal(t, []string{
		"archives", "author_links", "authors", "books", "genre_links", "genres", "title_links", "titles",
	}, schemaObjects(t, db, "table"))
	assert.Equal(t, []string{"authors_view", "titles_view"}, schemaObjects(t, db, "view"))

	indexes := schemaObjects(t, db, "index")
	for _, name := range []string{
		"ux_title_links_book", "ix_title_links_title_id",
		"ux_author_links_book", "ix_author_links_author_id",
		"ux_genre_links_book", "ix_genre_links_genre_id",
		"ix_authors_last_name",
	} {
		assert.Contains(t, indexes, name)
	}

	// Nothing left to apply.
	group, err = migrations.BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, group.ID)

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	_, err = migrator.Rollback(ctx)
	require.NoError(t, err)

	assert.Empty(t, schemaObjects(t, db, "table"))
	assert.Empty(t, schemaObjects(t, db, "view"))

	// And back up again.
	_, err = migrations.BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Len(t, schemaObjects(t, db, "table"), 8)
}

func TestMigrations_LinkIndexesAreUnique(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	_, err = migrations.BringUpToDate(ctx, db)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO archives (arch_name, arch_home, arch_uuid, arch_size, arch_done) VALUES ('a.zip', '/tmp', 'ABC', 1, 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO books (arch_id, book_file, book_zip_size, book_size, book_crc32, book_offset) VALUES (1, '1.fb2', 8, 10, 42, 30)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO genres (genre_name) VALUES ('prose')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO genre_links (book_id, genre_id) VALUES (1, 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO genre_links (book_id, genre_id) VALUES (1, 1)`)
	assert.Error(t, err)
}
