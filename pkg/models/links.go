package models

import (
	"github.com/uptrace/bun"
)

type TitleLink struct {
	bun.BaseModel `bun:"table:title_links,alias:tl"`

	ID      int `bun:",pk,nullzero" json:"id"`
	BookID  int `bun:"book_id" json:"book_id"`
	TitleID int `bun:"title_id" json:"title_id"`
}

type AuthorLink struct {
	bun.BaseModel `bun:"table:author_links,alias:al"`

	ID       int `bun:",pk,nullzero" json:"id"`
	BookID   int `bun:"book_id" json:"book_id"`
	AuthorID int `bun:"author_id" json:"author_id"`
}

type GenreLink struct {
	bun.BaseModel `bun:"table:genre_links,alias:gl"`

	ID      int `bun:",pk,nullzero" json:"id"`
	BookID  int `bun:"book_id" json:"book_id"`
	GenreID int `bun:"genre_id" json:"genre_id"`
}
