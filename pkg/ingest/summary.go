package ingest

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
)

// Summary reports what a Load did.
type Summary struct {
	Archive       string          `json:"archive"`
	ArchiveID     int             `json:"archive_id"`
	AlreadyLoaded bool            `json:"already_loaded"`
	Total         int             `json:"total"`
	Broken        int             `json:"broken"`
	Skipped       int             `json:"skipped"`
	Existing      int             `json:"existing"`
	Loaded        int             `json:"loaded"`
	Storages      []catalog.Stats `json:"storages"`
}

// Print writes one line per storage followed by the entry counters. An
// archive that was already loaded gets a notice in place of the storages.
func (s *Summary) Print(w io.Writer) error {
	if s.AlreadyLoaded {
		if _, err := fmt.Fprintf(w, "Archive %s is already loaded\n", s.Archive); err != nil {
			return errors.WithStack(err)
		}
	} else {
		for _, st := range s.Storages {
			if _, err := fmt.Fprintln(w, st.String()); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	_, err := fmt.Fprintf(w, "Total books in archive: %d\nBroken books found: %d\nSkipped by language filter: %d\n",
		s.Total, s.Broken, s.Skipped)
	return errors.WithStack(err)
}
