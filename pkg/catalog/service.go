package catalog

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/fb2"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type storages struct {
	archives    *Storage[models.Archive, string]
	books       *Storage[models.Book, bookKey]
	titles      *Storage[models.Title, string]
	authors     *Storage[models.Author, authorKey]
	genres      *Storage[models.Genre, string]
	titleLinks  *Storage[models.TitleLink, linkKey]
	authorLinks *Storage[models.AuthorLink, linkKey]
	genreLinks  *Storage[models.GenreLink, linkKey]
}

// Service is the catalog writer. A Service owns its caches and must be used
// from one goroutine.
type Service struct {
	db bun.IDB
	*storages
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db: db,
		storages: &storages{
			archives:    NewStorage(archiveKind),
			books:       NewStorage(bookKind),
			titles:      NewStorage(titleKind),
			authors:     NewStorage(authorKind),
			genres:      NewStorage(genreKind),
			titleLinks:  NewStorage(titleLinkKind),
			authorLinks: NewStorage(authorLinkKind),
			genreLinks:  NewStorage(genreLinkKind),
		},
	}
}

// RunInTx calls fn with a Service whose writes go through a transaction.
// The caches are shared with s and are dropped if the transaction fails,
// since they may hold ids that were rolled back.
func (s *Service) RunInTx(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error {
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Service{db: tx, storages: s.storages})
	})
	if err != nil {
		s.Reset()
		return errors.WithStack(err)
	}
	return nil
}

func (s *Service) SaveArchive(ctx context.Context, archive *models.Archive) (SaveResult, error) {
	return s.archives.Save(ctx, s.db, archive)
}

// FindArchiveByDigest returns the archive with the given digest, or
// errcodes.NotFound("Archive").
func (s *Service) FindArchiveByDigest(ctx context.Context, digest string) (*models.Archive, error) {
	archive := &models.Archive{}
	err := s.db.NewSelect().
		Model(archive).
		Where("a.arch_uuid = ?", digest).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Archive")
		}
		return nil, errors.WithStack(err)
	}
	return archive, nil
}

func (s *Service) MarkArchiveDone(ctx context.Context, archiveID int) error {
	_, err := s.db.NewUpdate().
		Model((*models.Archive)(nil)).
		Set("arch_done = ?", true).
		Where("id = ?", archiveID).
		Exec(ctx)
	return errors.WithStack(err)
}

// FindBook returns the id of the book stored for the given archive entry.
func (s *Service) FindBook(ctx context.Context, archiveID int, file string, crc32 uint32) (int, bool, error) {
	return s.books.Lookup(ctx, s.db, &models.Book{
		ArchiveID: archiveID,
		File:      file,
		CRC32:     int64(crc32),
	})
}

func (s *Service) SaveBook(ctx context.Context, book *models.Book) (SaveResult, error) {
	return s.books.Save(ctx, s.db, book)
}

// SaveContent links the book to its title, authors and genres, storing any of
// them that are new. A missing title is stored as the empty string so every
// book has exactly one title link. Translators aren't linked.
func (s *Service) SaveContent(ctx context.Context, bookID int, d *fb2.Description) error {
	title := &models.Title{Text: d.TitleOr("")}
	res, err := s.titles.Save(ctx, s.db, title)
	if err != nil {
		return err
	}
	_, err = s.titleLinks.Save(ctx, s.db, &models.TitleLink{BookID: bookID, TitleID: res.ID})
	if err != nil {
		return err
	}

	for _, a := range d.Authors {
		res, err := s.authors.Save(ctx, s.db, &models.Author{
			FirstName:  a.FirstName,
			MiddleName: a.MiddleName,
			LastName:   a.LastName,
			Nickname:   a.Nickname,
			UUID:       a.ID,
		})
		if err != nil {
			return err
		}
		_, err = s.authorLinks.Save(ctx, s.db, &models.AuthorLink{BookID: bookID, AuthorID: res.ID})
		if err != nil {
			return err
		}
	}

	for _, code := range d.Genres {
		if code == "" {
			continue
		}
		res, err := s.genres.Save(ctx, s.db, &models.Genre{Name: code})
		if err != nil {
			return err
		}
		_, err = s.genreLinks.Save(ctx, s.db, &models.GenreLink{BookID: bookID, GenreID: res.ID})
		if err != nil {
			return err
		}
	}

	return nil
}

// Stats returns the counters of every storage in a fixed order.
func (s *Service) Stats() []Stats {
	return []Stats{
		s.archives.Stats(),
		s.books.Stats(),
		s.titles.Stats(),
		s.authors.Stats(),
		s.genres.Stats(),
		s.titleLinks.Stats(),
		s.authorLinks.Stats(),
		s.genreLinks.Stats(),
	}
}

// StatsSince returns the counters of every storage accumulated after prev, a
// value earlier returned by Stats.
func (s *Service) StatsSince(prev []Stats) []Stats {
	now := s.Stats()
	if len(prev) != len(now) {
		return now
	}
	for i := range now {
		now[i] = now[i].Since(prev[i])
	}
	return now
}

// Reset drops every cache.
func (s *Service) Reset() {
	s.archives.Reset()
	s.books.Reset()
	s.titles.Reset()
	s.authors.Reset()
	s.genres.Reset()
	s.titleLinks.Reset()
	s.authorLinks.Reset()
	s.genreLinks.Reset()
}
