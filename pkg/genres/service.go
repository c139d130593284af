package genres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type ListGenresOptions struct {
	Limit  *int
	Offset *int
	// Prefix restricts the list to genre names starting with it.
	Prefix *string
}

// GenreWithCount is a genre with the number of books linked to it.
type GenreWithCount struct {
	models.Genre `bun:",extend"`

	BookCount int `bun:"book_count,scanonly" json:"book_count"`
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) query(genres interface{}) *bun.SelectQuery {
	return svc.db.NewSelect().
		Model(genres).
		ColumnExpr("g.*").
		ColumnExpr("(SELECT COUNT(*) FROM genre_links AS gl WHERE gl.genre_id = g.id) AS book_count")
}

func (svc *Service) RetrieveGenre(ctx context.Context, name string) (*GenreWithCount, error) {
	genre := &GenreWithCount{}
	err := svc.query(genre).
		Where("g.genre_name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}
	return genre, nil
}

func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*GenreWithCount, error) {
	genres := []*GenreWithCount{}
	q := svc.query(&genres).
		Order("g.genre_name ASC")

	if opts.Prefix != nil && *opts.Prefix != "" {
		q = q.Where("g.genre_name LIKE ? ESCAPE '!'", catalog.LikePrefix(*opts.Prefix))
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
	return genres, nil
}
