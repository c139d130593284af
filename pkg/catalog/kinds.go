package catalog

import (
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type bookKey struct {
	archiveID int
	file      string
	crc32     int64
}

type authorKey struct {
	first, middle, last, nickname, uuid string
}

type linkKey struct {
	bookID, otherID int
}

var archiveKind = Kind[models.Archive, string]{
	Name: "Archive",
	Key:  func(a *models.Archive) string { return a.Digest },
	Unique: func(q *bun.SelectQuery, a *models.Archive) *bun.SelectQuery {
		return q.Where("?TableAlias.arch_uuid = ?", a.Digest)
	},
	ID: func(a *models.Archive) *int { return &a.ID },
}

var bookKind = Kind[models.Book, bookKey]{
	Name: "Book",
	Key: func(b *models.Book) bookKey {
		return bookKey{archiveID: b.ArchiveID, file: b.File, crc32: b.CRC32}
	},
	Unique: func(q *bun.SelectQuery, b *models.Book) *bun.SelectQuery {
		return q.Where("?TableAlias.arch_id = ?", b.ArchiveID).
			Where("?TableAlias.book_file = ?", b.File).
			Where("?TableAlias.book_crc32 = ?", b.CRC32)
	},
	ID: func(b *models.Book) *int { return &b.ID },
}

var titleKind = Kind[models.Title, string]{
	Name: "Title",
	Key:  func(t *models.Title) string { return t.Text },
	Unique: func(q *bun.SelectQuery, t *models.Title) *bun.SelectQuery {
		return q.Where("?TableAlias.book_title = ?", t.Text)
	},
	ID: func(t *models.Title) *int { return &t.ID },
}

var authorKind = Kind[models.Author, authorKey]{
	Name: "Author",
	Key: func(a *models.Author) authorKey {
		return authorKey{a.FirstName, a.MiddleName, a.LastName, a.Nickname, a.UUID}
	},
	Unique: func(q *bun.SelectQuery, a *models.Author) *bun.SelectQuery {
		return q.Where("?TableAlias.first_name = ?", a.FirstName).
			Where("?TableAlias.middle_name = ?", a.MiddleName).
			Where("?TableAlias.last_name = ?", a.LastName).
			Where("?TableAlias.nickname = ?", a.Nickname).
			Where("?TableAlias.uuid = ?", a.UUID)
	},
	ID: func(a *models.Author) *int { return &a.ID },
}

var genreKind = Kind[models.Genre, string]{
	Name: "Genre",
	Key:  func(g *models.Genre) string { return g.Name },
	Unique: func(q *bun.SelectQuery, g *models.Genre) *bun.SelectQuery {
		return q.Where("?TableAlias.genre_name = ?", g.Name)
	},
	ID: func(g *models.Genre) *int { return &g.ID },
}

var titleLinkKind = Kind[models.TitleLink, linkKey]{
	Name: "TitleLink",
	Key:  func(l *models.TitleLink) linkKey { return linkKey{l.BookID, l.TitleID} },
	Unique: func(q *bun.SelectQuery, l *models.TitleLink) *bun.SelectQuery {
		return q.Where("?TableAlias.book_id = ?", l.BookID).Where("?TableAlias.title_id = ?", l.TitleID)
	},
	ID: func(l *models.TitleLink) *int { return &l.ID },
}

var authorLinkKind = Kind[models.AuthorLink, linkKey]{
	Name: "AuthorLink",
	Key:  func(l *models.AuthorLink) linkKey { return linkKey{l.BookID, l.AuthorID} },
	Unique: func(q *bun.SelectQuery, l *models.AuthorLink) *bun.SelectQuery {
		return q.Where("?TableAlias.book_id = ?", l.BookID).Where("?TableAlias.author_id = ?", l.AuthorID)
	},
	ID: func(l *models.AuthorLink) *int { return &l.ID },
}

var genreLinkKind = Kind[models.GenreLink, linkKey]{
	Name: "GenreLink",
	Key:  func(l *models.GenreLink) linkKey { return linkKey{l.BookID, l.GenreID} },
	Unique: func(q *bun.SelectQuery, l *models.GenreLink) *bun.SelectQuery {
		return q.Where("?TableAlias.book_id = ?", l.BookID).Where("?TableAlias.genre_id = ?", l.GenreID)
	},
	ID: func(l *models.GenreLink) *int { return &l.ID },
}
