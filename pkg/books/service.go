package books

import (
	"context"
	"database/sql"
	"net/url"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookRecordOptions struct {
	ArchiveName string
	File        string
}

type ListBookRecordsOptions struct {
	Limit  *int
	Offset *int

	// Author name parts must match exactly. Nil parts are not filtered on.
	FirstName  *string
	MiddleName *string
	LastName   *string
	Title      *string
	Genre      *string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) recordQuery() *bun.SelectQuery {
	return svc.db.NewSelect().
		TableExpr("books AS b").
		ColumnExpr("b.id AS book_id").
		ColumnExpr("t.book_title").
		ColumnExpr("a.arch_name").
		ColumnExpr("a.arch_home").
		ColumnExpr("b.book_file").
		ColumnExpr("b.book_size").
		ColumnExpr("b.book_crc32").
		Join("JOIN archives AS a ON a.id = b.arch_id").
		Join("JOIN title_links AS tl ON tl.book_id = b.id").
		Join("JOIN titles AS t ON t.id = tl.title_id")
}

// RetrieveBookRecord resolves a book by the name of its archive and its file
// name inside that archive.
func (svc *Service) RetrieveBookRecord(ctx context.Context, opts RetrieveBookRecordOptions) (*models.BookRecord, error) {
	record := &models.BookRecord{}
	err := svc.recordQuery().
		Where("a.arch_name = ?", opts.ArchiveName).
		Where("b.book_file = ?", opts.File).
		OrderExpr("b.id").
		Limit(1).
		Scan(ctx, record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	if err := svc.attachAuthors(ctx, []*models.BookRecord{record}); err != nil {
		return nil, errors.WithStack(err)
	}
	setURLs(record)
	return record, nil
}

func (svc *Service) ListBookRecords(ctx context.Context, opts ListBookRecordsOptions) ([]*models.BookRecord, error) {
	records := []*models.BookRecord{}
	q := svc.recordQuery().
		Distinct().
		OrderExpr("t.book_title").
		OrderExpr("b.id")

	if opts.FirstName != nil || opts.MiddleName != nil || opts.LastName != nil {
		q = q.
			Join("JOIN author_links AS al ON al.book_id = b.id").
			Join("JOIN authors AS au ON au.id = al.author_id")
		if opts.FirstName != nil {
			q = q.Where("au.first_name = ?", *opts.FirstName)
		}
		if opts.MiddleName != nil {
			q = q.Where("au.middle_name = ?", *opts.MiddleName)
		}
		if opts.LastName != nil {
			q = q.Where("au.last_name = ?", *opts.LastName)
		}
	}
	if opts.Title != nil {
		q = q.Where("t.book_title = ?", *opts.Title)
	}
	if opts.Genre != nil {
		q = q.Where("EXISTS (SELECT 1 FROM genre_links AS gl JOIN genres AS g ON g.id = gl.genre_id WHERE gl.book_id = b.id AND g.genre_name = ?)", *opts.Genre)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx, &records); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := svc.attachAuthors(ctx, records); err != nil {
		return nil, errors.WithStack(err)
	}
	for _, r := range records {
		setURLs(r)
	}
	return records, nil
}

// TitleChars returns the next valid characters of titles starting with prefix.
func (svc *Service) TitleChars(ctx context.Context, prefix string) ([]string, error) {
	return catalog.NextChars(ctx, svc.db, catalog.FieldTitle, prefix)
}

type bookAuthor struct {
	ID         int    `bun:"id"`
	BookID     int    `bun:"book_id"`
	FirstName  string `bun:"first_name"`
	MiddleName string `bun:"middle_name"`
	LastName   string `bun:"last_name"`
	Nickname   string `bun:"nickname"`
	UUID       string `bun:"uuid"`
}

func (svc *Service) attachAuthors(ctx context.Context, records []*models.BookRecord) error {
	if len(records) == 0 {
		return nil
	}
	byBook := make(map[int]*models.BookRecord, len(records))
	ids := make([]int, 0, len(records))
	for _, r := range records {
		r.Authors = []*models.Author{}
		byBook[r.BookID] = r
		ids = append(ids, r.BookID)
	}

	rows := []*bookAuthor{}
	err := svc.db.NewSelect().
		TableExpr("authors_view").
		Column("id", "book_id", "first_name", "middle_name", "last_name", "nickname", "uuid").
		Where("book_id IN (?)", bun.In(ids)).
		OrderExpr("book_id, id").
		Scan(ctx, &rows)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, row := range rows {
		r := byBook[row.BookID]
		r.Authors = append(r.Authors, &models.Author{
			ID:         row.ID,
			FirstName:  row.FirstName,
			MiddleName: row.MiddleName,
			LastName:   row.LastName,
			Nickname:   row.Nickname,
			UUID:       row.UUID,
		})
	}
	return nil
}

// DownloadPath is the path of the raw download route for a book.
func DownloadPath(archiveName, file string) string {
	return "/download/" + url.PathEscape(archiveName) + "/" + url.PathEscape(file)
}

// DownloadZipPath is the path of the zipped download route for a book.
func DownloadZipPath(archiveName, file string) string {
	return "/download_zip/" + url.PathEscape(archiveName) + "/" + url.PathEscape(file)
}

func setURLs(r *models.BookRecord) {
	r.DownloadURL = DownloadPath(r.ArchiveName, r.File)
	r.ZipURL = DownloadZipPath(r.ArchiveName, r.File)
}
