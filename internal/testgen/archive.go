package testgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// GenerateArchive writes a ZIP archive containing entries to dir/filename and
// returns its path.
func GenerateArchive(t *testing.T, dir, filename string, entries ...ArchiveEntry) string {
	t.Helper()

	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		if err := writeZipFile(zw, e); err != nil {
			t.Fatalf("failed to write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize archive: %v", err)
	}

	return path
}

func writeZipFile(zw *zip.Writer, e ArchiveEntry) error {
	method := zip.Deflate
	if e.Store {
		method = zip.Store
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: method})
	if err != nil {
		return err
	}
	_, err = w.Write(e.Data)
	return err
}
