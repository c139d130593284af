// Package catalog writes archives, books and their metadata into the catalog
// database, storing each distinct value once.
package catalog

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/uptrace/bun"
)

// Kind describes how rows of type T are identified by value.
type Kind[T any, K comparable] struct {
	// Name is used in stats and not-found errors.
	Name string
	// Key returns the in-memory identity of a value.
	Key func(v *T) K
	// Unique restricts q to rows equal to v on the unique key.
	Unique func(q *bun.SelectQuery, v *T) *bun.SelectQuery
	// ID points at the primary key field of v.
	ID func(v *T) *int
}

// Table implements lookup, insertion and retrieval for one kind.
type Table[T any, K comparable] struct {
	kind Kind[T, K]
}

func NewTable[T any, K comparable](kind Kind[T, K]) *Table[T, K] {
	return &Table[T, K]{kind: kind}
}

// Find returns the id of the row equal to v, or errcodes.NotFound.
func (t *Table[T, K]) Find(ctx context.Context, db bun.IDB, v *T) (int, error) {
	var id int
	q := db.NewSelect().
		Model((*T)(nil)).
		ColumnExpr("?TableAlias.id")
	err := t.kind.Unique(q, v).
		Limit(1).
		Scan(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errcodes.NotFound(t.kind.Name)
		}
		return 0, errors.WithStack(err)
	}
	return id, nil
}

// Insert stores v and sets its id.
func (t *Table[T, K]) Insert(ctx context.Context, db bun.IDB, v *T) error {
	_, err := db.NewInsert().
		Model(v).
		Returning("id").
		Exec(ctx)
	return errors.WithStack(err)
}

// Retrieve loads the row with the given id.
func (t *Table[T, K]) Retrieve(ctx context.Context, db bun.IDB, id int) (*T, error) {
	v := new(T)
	err := db.NewSelect().
		Model(v).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(t.kind.Name)
		}
		return nil, errors.WithStack(err)
	}
	return v, nil
}

// Count returns the number of rows in the table.
func (t *Table[T, K]) Count(ctx context.Context, db bun.IDB) (int, error) {
	n, err := db.NewSelect().Model((*T)(nil)).Count(ctx)
	return n, errors.WithStack(err)
}
