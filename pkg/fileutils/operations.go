package fileutils

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// WriteNewFile copies r into a file at dst that must not exist yet. The
// partial file is removed if the copy fails.
func WriteNewFile(dst string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(dst)
		return 0, errors.WithStack(err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return 0, errors.WithStack(err)
	}

	return n, nil
}
