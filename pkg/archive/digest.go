package archive

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DigestPrefix is how much of an archive contributes to its digest.
const DigestPrefix = 1 << 20

// Info identifies an archive on disk.
type Info struct {
	Name   string
	Home   string
	Size   int64
	Digest string
}

// Digest returns the uppercase hex MD5 of the first DigestPrefix bytes of the
// file at path, or of the whole file when it is shorter. Two archives that
// share their first mebibyte get the same digest.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	return digestReader(f)
}

func digestReader(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, io.LimitReader(r, DigestPrefix)); err != nil {
		return "", errors.WithStack(err)
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

// Describe gathers the identifying details of the archive at path.
func Describe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if stat.IsDir() {
		return nil, errors.Errorf("archive: %s is a directory", path)
	}

	digest, err := digestReader(f)
	if err != nil {
		return nil, err
	}

	home, err := Home(path)
	if err != nil {
		return nil, err
	}

	return &Info{
		Name:   filepath.Base(path),
		Home:   home,
		Size:   stat.Size(),
		Digest: digest,
	}, nil
}
