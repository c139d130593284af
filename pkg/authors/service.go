package authors

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int

	// Name parts are matched as prefixes.
	FirstName  *string
	MiddleName *string
	LastName   *string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, error) {
	authors := []*models.Author{}
	q := svc.db.NewSelect().
		Model(&authors).
		Order("au.last_name ASC", "au.first_name ASC", "au.middle_name ASC", "au.id ASC")

	filters := []struct {
		field  catalog.Field
		prefix *string
	}{
		{catalog.FieldFirstName, opts.FirstName},
		{catalog.FieldMiddleName, opts.MiddleName},
		{catalog.FieldLastName, opts.LastName},
	}
	for _, f := range filters {
		if f.prefix != nil {
			q = q.Where("?TableAlias.? LIKE ? ESCAPE '!'", bun.Ident(f.field.Column()), catalog.LikePrefix(*f.prefix))
		}
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return authors, nil
}

// NameChars returns the next valid characters of the given author name field
// for values starting with prefix.
func (svc *Service) NameChars(ctx context.Context, field catalog.Field, prefix string) ([]string, error) {
	return catalog.NextChars(ctx, svc.db, field, prefix)
}
