package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE VIEW titles_view AS
			SELECT b.id AS id, t.book_title AS title
			FROM books b
			JOIN title_links tl ON tl.book_id = b.id
			JOIN titles t ON t.id = tl.title_id
`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE VIEW authors_view AS
			SELECT a.id AS id, al.book_id AS book_id, a.first_name, a.middle_name, a.last_name, a.nickname, a.uuid
			FROM authors a
			JOIN author_links al ON al.author_id = a.id
`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Prefix browsing over author names
		_, err = db.Exec(`CREATE INDEX ix_authors_last_name ON authors(last_name)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP INDEX IF EXISTS ix_authors_last_name")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP VIEW IF EXISTS authors_view")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP VIEW IF EXISTS titles_view")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
