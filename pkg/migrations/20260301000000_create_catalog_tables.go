package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE archives (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				arch_name TEXT NOT NULL,
				arch_home TEXT NOT NULL,
				arch_size INTEGER NOT NULL,
				arch_uuid TEXT NOT NULL,
				arch_done BOOLEAN NOT NULL DEFAULT FALSE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_archives_uuid ON archives(arch_uuid)`)
		if err != nil {
			return errors.WithStack(err)
		}
		// The extractor looks archives up by name.
		_, err = db.Exec(`CREATE INDEX ix_archives_name ON archives(arch_name)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				arch_id INTEGER REFERENCES archives (id) ON DELETE CASCADE NOT NULL,
				book_file TEXT NOT NULL,
				book_zip_size INTEGER NOT NULL,
				book_size INTEGER NOT NULL,
				book_crc32 INTEGER NOT NULL,
				book_offset INTEGER NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_books_arch_file_crc ON books(arch_id, book_file, book_crc32)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE titles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_title TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_titles_book_title ON titles(book_title)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL DEFAULT '',
				middle_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				nickname TEXT NOT NULL DEFAULT '',
				uuid TEXT NOT NULL DEFAULT ''
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_authors_name ON authors(first_name, middle_name, last_name, nickname, uuid)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE genres (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				genre_name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_genres_genre_name ON genres(genre_name)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Link tables
		links := []struct{ table, column, target string }{
			{"title_links", "title_id", "titles"},
			{"author_links", "author_id", "authors"},
			{"genre_links", "genre_id", "genres"},
		}
		for _, l := range links {
			_, err = db.Exec(`
				CREATE TABLE ? (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
					? INTEGER REFERENCES ? (id) ON DELETE CASCADE NOT NULL
				)
`, bun.Ident(l.table), bun.Ident(l.column), bun.Ident(l.target))
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = db.Exec(`CREATE UNIQUE INDEX ? ON ? (book_id, ?)`,
				bun.Ident("ux_"+l.table+"_book"), bun.Ident(l.table), bun.Ident(l.column))
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = db.Exec(`CREATE INDEX ? ON ? (?)`,
				bun.Ident("ix_"+l.table+"_"+l.column), bun.Ident(l.table), bun.Ident(l.column))
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"genre_links", "author_links", "title_links", "genres", "authors", "titles", "books", "archives"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS ?", bun.Ident(table)); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
