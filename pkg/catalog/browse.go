package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Field is a browsable catalog column.
type Field struct {
	Name   string
	table  string
	column string
}

var (
	FieldFirstName  = Field{"first_name", "authors", "first_name"}
	FieldMiddleName = Field{"middle_name", "authors", "middle_name"}
	FieldLastName   = Field{"last_name", "authors", "last_name"}
	FieldTitle      = Field{"title", "titles", "book_title"}
)

func (f Field) Column() string { return f.column }

// AuthorFields lists the author name columns that can be browsed by prefix.
var AuthorFields = []Field{FieldFirstName, FieldMiddleName, FieldLastName}

// AuthorField returns the author name field with the given name.
func AuthorField(name string) (Field, bool) {
	for _, f := range AuthorFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

const likeEscape = '!'

// LikePrefix escapes prefix for use in a LIKE ... ESCAPE '!' pattern that
// matches every value starting with it.
func LikePrefix(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == likeEscape || r == '%' || r == '_' {
			sb.WriteRune(likeEscape)
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('%')
	return sb.String()
}

// NextChars returns the distinct values of field cut one character past
// prefix, for every stored value that starts with prefix. Values equal to
// prefix come back unchanged, which tells a client the prefix is complete.
func NextChars(ctx context.Context, db bun.IDB, field Field, prefix string) ([]string, error) {
	n := utf8.RuneCountInString(prefix) + 1

	var values []string
	err := db.NewSelect().
		Distinct().
		TableExpr("?", bun.Ident(field.table)).
		ColumnExpr("substr(?, 1, ?) AS content", bun.Ident(field.column), n).
		Where("? <> ''", bun.Ident(field.column)).
		Where("? LIKE ? ESCAPE '!'", bun.Ident(field.column), LikePrefix(prefix)).
		OrderExpr("content").
		Scan(ctx, &values)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return values, nil
}
