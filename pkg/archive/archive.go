// Package archive reads the ZIP containers that books are distributed in.
package archive

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

var (
	ErrMalformed     = errors.New("archive: malformed zip")
	ErrEntryNotFound = errors.New("archive: entry not found")
)

// Archive is an open ZIP file.
type Archive struct {
	path   string
	rc     *zip.ReadCloser
	byName map[string]int
}

// Entry describes a single file inside an archive.
type Entry struct {
	Name           string
	CRC32          uint32
	Size           int64
	CompressedSize int64
	// Offset is where the entry's compressed data starts in the archive.
	Offset int64

	file *zip.File
}

// Open opens the archive at path. The central directory is read eagerly, so a
// truncated or corrupt archive fails here.
func Open(path string) (*Archive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WithStack(err)
	}
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %s", path, err)
	}
	return &Archive{path: path, rc: rc}, nil
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Len returns the number of entries, directories included.
func (a *Archive) Len() int {
	return len(a.rc.File)
}

// Entry returns the i-th entry in central directory order.
func (a *Archive) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(a.rc.File) {
		return nil, errors.Errorf("archive: entry index %d out of range [0, %d)", i, len(a.rc.File))
	}
	return newEntry(a.rc.File[i])
}

// Lookup returns the entry with the given name.
func (a *Archive) Lookup(name string) (*Entry, error) {
	if a.byName == nil {
		a.byName = make(map[string]int, len(a.rc.File))
		for i, f := range a.rc.File {
			if _, ok := a.byName[f.Name]; !ok {
				a.byName[f.Name] = i
			}
		}
	}
	i, ok := a.byName[name]
	if !ok {
		return nil, errors.Wrap(ErrEntryNotFound, name)
	}
	return newEntry(a.rc.File[i])
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return errors.WithStack(a.rc.Close())
}

// IsDir reports whether the entry is a directory placeholder.
func (e *Entry) IsDir() bool {
	return e.file.FileInfo().IsDir()
}

// Open returns a reader over the decompressed content. The reader verifies the
// CRC-32 when it reaches the end of the data.
func (e *Entry) Open() (io.ReadCloser, error) {
	r, err := e.file.Open()
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %s", e.Name, err)
	}
	return r, nil
}

func newEntry(f *zip.File) (*Entry, error) {
	offset, err := f.DataOffset()
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %s", f.Name, err)
	}
	return &Entry{
		Name:           f.Name,
		CRC32:          f.CRC32,
		Size:           int64(f.UncompressedSize64),
		CompressedSize: int64(f.CompressedSize64),
		Offset:         offset,
		file:           f,
	}, nil
}

// Home returns the canonical absolute directory containing path.
func Home(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", errors.WithStack(err)
	}
	return dir, nil
}
