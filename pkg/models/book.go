package models

import (
	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int      `bun:",pk,nullzero" json:"id"`
	ArchiveID int      `bun:"arch_id" json:"archive_id"`
	File      string   `bun:"book_file" json:"file"`
	ZipSize   int64    `bun:"book_zip_size" json:"zip_size"`
	Size      int64    `bun:"book_size" json:"size"`
	CRC32     int64    `bun:"book_crc32" json:"crc32"`
	Offset    int64    `bun:"book_offset" json:"offset"`
	Archive   *Archive `bun:"rel:belongs-to,join:arch_id=id" json:"archive,omitempty"`
}

type Title struct {
	bun.BaseModel `bun:"table:titles,alias:t"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Text string `bun:"book_title" json:"title"`
}

// Author is stored with empty strings rather than NULLs for missing name
// parts so that the five columns can be compared as a whole.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:au"`

	ID         int    `bun:",pk,nullzero" json:"id"`
	FirstName  string `bun:"first_name" json:"first_name"`
	MiddleName string `bun:"middle_name" json:"middle_name"`
	LastName   string `bun:"last_name" json:"last_name"`
	Nickname   string `bun:"nickname" json:"nickname"`
	UUID       string `bun:"uuid" json:"uuid"`
}

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:"genre_name" json:"name"`
}
