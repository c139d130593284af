// Package extractor pulls single books out of catalogued archives and
// prepares them for download.
package extractor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/fb2catalog/pkg/archive"
	"github.com/shishobooks/fb2catalog/pkg/books"
	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/fb2"
	"github.com/shishobooks/fb2catalog/pkg/fileutils"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type Options struct {
	// Zip wraps the book in a single-entry archive.
	Zip bool
}

// Result is a prepared download. Close must be called once the file has been
// sent.
type Result struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
	Scratch     *Scratch
}

func (r *Result) Close() error {
	return r.Scratch.Cleanup()
}

type Service struct {
	cfg         *config.Config
	bookService *books.Service
}

func NewService(cfg *config.Config, db bun.IDB) *Service {
	return &Service{
		cfg:         cfg,
		bookService: books.NewService(db),
	}
}

func (svc *Service) Extract(ctx context.Context, archiveName, bookFile string, opts Options) (result *Result, err error) {
	log := logger.FromContext(ctx).Data(logger.Data{"archive": archiveName, "book": bookFile, "zip": opts.Zip})

	record, err := svc.bookService.RetrieveBookRecord(ctx, books.RetrieveBookRecordOptions{
		ArchiveName: archiveName,
		File:        bookFile,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	scratch := NewScratch(svc.cfg.WorkDir)
	defer func() {
		if err != nil {
			if cerr := scratch.Cleanup(); cerr != nil {
				log.Err(cerr).Warn("failed to clean up scratch files")
			}
		}
	}()

	rawPath, size, err := svc.copyEntry(ctx, scratch, record)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	title := svc.recoverTitle(ctx, rawPath, record)
	filename := fileutils.DownloadFilename(title, record.File)

	path := rawPath
	if opts.Zip {
		path, size, err = wrap(scratch, rawPath, filename)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		filename = fileutils.ZipFilename(filename)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Info("extracted book", logger.Data{"filename": filename, "size": size})

	return &Result{
		Path:        path,
		Filename:    filename,
		ContentType: mtype.String(),
		Size:        size,
		Scratch:     scratch,
	}, nil
}

func (svc *Service) copyEntry(ctx context.Context, scratch *Scratch, record *models.BookRecord) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, errors.WithStack(err)
	}

	arch, err := archive.Open(filepath.Join(record.ArchiveHome, record.ArchiveName))
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	defer arch.Close()

	entry, err := arch.Lookup(record.File)
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			// The catalog is older than the archive on disk.
			return "", 0, errcodes.NotFound("Book")
		}
		return "", 0, errors.WithStack(err)
	}

	rc, err := entry.Open()
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	defer rc.Close()

	path := scratch.NewPath(fileutils.FB2Ext)
	size, err := fileutils.WriteNewFile(path, rc)
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	return path, size, nil
}

// recoverTitle re-reads the header of the extracted file. Books whose header
// can no longer be parsed are served under the catalogued title.
func (svc *Service) recoverTitle(ctx context.Context, path string, record *models.BookRecord) string {
	log := logger.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		log.Err(err).Warn("failed to reopen extracted book")
		return record.Title
	}
	defer f.Close()

	d, err := fb2.ReadDescription(f, svc.cfg.HeaderLimit)
	if err != nil {
		log.Warn("failed to read book header", logger.Data{"book": record.File, "err": err.Error()})
		return record.Title
	}
	return d.TitleOr(record.Title)
}

// wrap stores the file at src as the only entry of a new deflated archive.
func wrap(scratch *Scratch, src, name string) (string, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	defer in.Close()

	path := scratch.NewPath(fileutils.ZipExt)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return "", 0, errors.WithStack(err)
	}
	if err := zw.Close(); err != nil {
		return "", 0, errors.WithStack(err)
	}

	info, err := out.Stat()
	if err != nil {
		return "", 0, errors.WithStack(err)
	}
	return path, info.Size(), nil
}
