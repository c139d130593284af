// Package ingest loads FB2 archives into the catalog.
package ingest

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/fb2catalog/pkg/archive"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/fb2"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/uptrace/bun"
)

type Options struct {
	// Rescan walks an archive even if it was loaded completely before.
	Rescan bool
}

// Driver walks archives entry by entry. It isn't safe for concurrent use. One
// Driver can load several archives in turn and keeps its caches between them.
type Driver struct {
	cfg     *config.Config
	catalog *catalog.Service
}

func New(cfg *config.Config, db *bun.DB) *Driver {
	return &Driver{
		cfg:     cfg,
		catalog: catalog.NewService(db),
	}
}

// Load catalogs every book in the archive at path. Entries that can't be
// parsed are counted as broken and entries in other languages as skipped;
// neither stops the load. Database and archive errors do.
func (d *Driver) Load(ctx context.Context, path string, opts Options) (*Summary, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"archive": path})

	info, err := archive.Describe(path)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Archive: info.Name}
	// Caches outlive a Load, counters are reported per archive.
	before := d.catalog.Stats()

	existing, err := d.catalog.FindArchiveByDigest(ctx, info.Digest)
	switch {
	case err == nil && existing.Done && !opts.Rescan:
		log.Info("archive already loaded", logger.Data{"archive_id": existing.ID})
		summary.ArchiveID = existing.ID
		summary.AlreadyLoaded = true
		summary.Storages = d.catalog.StatsSince(before)
		return summary, nil
	case err != nil && !errors.Is(err, errcodes.NotFound("Archive")):
		return nil, err
	}

	res, err := d.catalog.SaveArchive(ctx, &models.Archive{
		Name:   info.Name,
		Home:   info.Home,
		Size:   info.Size,
		Digest: info.Digest,
	})
	if err != nil {
		return nil, err
	}
	summary.ArchiveID = res.ID
	log = log.Data(logger.Data{"archive_id": res.ID})
	log.Info("loading archive", logger.Data{"state": res.State.String(), "digest": info.Digest})

	zr, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for i := 0; i < zr.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		entry, err := zr.Entry(i)
		if err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		summary.Total++

		if err := d.loadEntry(ctx, log, res.ID, entry, summary); err != nil {
			log.Err(err).Error("failed to load entry", logger.Data{"entry": entry.Name})
			return nil, errors.Wrapf(err, "loading %s", entry.Name)
		}
	}

	if err := d.catalog.MarkArchiveDone(ctx, res.ID); err != nil {
		return nil, err
	}
	summary.Storages = d.catalog.StatsSince(before)

	log.Info("finished loading archive", logger.Data{
		"total":    summary.Total,
		"broken":   summary.Broken,
		"skipped":  summary.Skipped,
		"existing": summary.Existing,
		"loaded":   summary.Loaded,
	})

	return summary, nil
}

func (d *Driver) loadEntry(ctx context.Context, log logger.Logger, archiveID int, entry *archive.Entry, summary *Summary) error {
	if _, ok, err := d.catalog.FindBook(ctx, archiveID, entry.Name, entry.CRC32); err != nil {
		return err
	} else if ok {
		summary.Existing++
		return nil
	}

	desc, err := d.readDescription(ctx, entry)
	if err != nil {
		if !isBroken(err) {
			return err
		}
		log.Warn("broken book", logger.Data{"entry": entry.Name, "err": err.Error()})
		summary.Broken++
		return nil
	}

	if !d.cfg.AcceptsLanguage(desc.Language()) {
		summary.Skipped++
		return nil
	}

	err = d.catalog.RunInTx(ctx, func(ctx context.Context, tx *catalog.Service) error {
		res, err := tx.SaveBook(ctx, &models.Book{
			ArchiveID: archiveID,
			File:      entry.Name,
			ZipSize:   entry.CompressedSize,
			Size:      entry.Size,
			CRC32:     int64(entry.CRC32),
			Offset:    entry.Offset,
		})
		if err != nil {
			return err
		}
		return tx.SaveContent(ctx, res.ID, desc)
	})
	if err != nil {
		return err
	}
	summary.Loaded++
	return nil
}

func (d *Driver) readDescription(ctx context.Context, entry *archive.Entry) (*fb2.Description, error) {
	if d.cfg.EntryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.EntryTimeout)
		defer cancel()
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return fb2.ReadDescription(&contextReader{ctx: ctx, r: rc}, d.cfg.HeaderLimit)
}

// isBroken reports whether err only concerns the entry's content.
func isBroken(err error) bool {
	var perr *fb2.ParseError
	return errors.Is(err, fb2.ErrNoHeader) ||
		errors.Is(err, fb2.ErrHeaderTooLarge) ||
		errors.Is(err, fb2.ErrTranscode) ||
		errors.Is(err, errEntryTimeout) ||
		errors.As(err, &perr)
}

var errEntryTimeout = errors.New("ingest: entry read timed out")

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, errEntryTimeout
		}
		return 0, err
	}
	return cr.r.Read(p)
}
