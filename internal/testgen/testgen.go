// Package testgen provides utilities for generating FB2 documents and ZIP
// archives with configurable metadata for testing the ingestion pipeline.
package testgen

import (
	"os"
	"path/filepath"
	"testing"
)

// Person is an author or translator written into title-info. Empty fields
// are omitted from the document.
type Person struct {
	FirstName  string
	MiddleName string
	LastName   string
	Nickname   string
	ID         string
}

// FB2Options configures the generated FB2 document.
type FB2Options struct {
	Title       string
	Lang        string // omitted from the document when empty
	Authors     []Person
	Translators []Person
	Genres      []string
	Encoding    string // "", "utf-8", "windows-1251" or "koi8-r"; defaults to utf-8
	SingleQuote bool   // quote the prolog attributes with ' instead of "
	NoProlog    bool   // omit the <?xml ...?> declaration
	BOM         bool   // prefix the document with a UTF-8 byte order mark
	RawTitle    bool   // write Title without escaping it
	Truncate    bool   // cut the document off before </description>
	BodySize    int    // approximate number of bytes of body text; defaults to 4 KiB
}

// ArchiveEntry is one file written by GenerateArchive.
type ArchiveEntry struct {
	Name  string
	Data  []byte
	Store bool // store without compression
}

// TempDir creates a temporary directory for testing and registers cleanup.
// The directory is automatically removed when the test completes.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// WriteFile creates a file with the given content in the specified directory.
// Returns the full path to the created file.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads and returns the contents of a file.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return data
}

// StringPtr is a helper to create a pointer to a string.
func StringPtr(s string) *string {
	return &s
}
