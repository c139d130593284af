package fileutils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain",
			input:    "Война и мир",
			expected: "Война и мир",
		},
		{
			name:     "path separators",
			input:    `My/Book\Part`,
			expected: "MyBookPart",
		},
		{
			name:     "reserved characters",
			input:    `a<b>c:d"e|f?g*h`,
			expected: "abcdefgh",
		},
		{
			name:     "control characters and nul",
			input:    "a\x00b\x01c\x7fd",
			expected: "abcd",
		},
		{
			name:     "collapses whitespace",
			input:    "a \t\n  b",
			expected: "a b",
		},
		{
			name:     "trims spaces and dots",
			input:    " . title .. ",
			expected: "title",
		},
		{
			name:     "invalid utf-8",
			input:    "ab\xffc",
			expected: "abc",
		},
		{
			name:     "nothing left",
			input:    `/\?*`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_Length(t *testing.T) {
	// 150 two-byte runes do not split evenly at the byte limit.
	long := "x" + strings.Repeat("ж", 150)
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), MaxNameBytes)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasPrefix(long, got))
}

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		file     string
		expected string
	}{
		{
			name:     "title",
			title:    "Война и мир",
			file:     "1.fb2",
			expected: "Война и мир.fb2",
		},
		{
			name:     "title with extension is not doubled",
			title:    "notes.FB2",
			file:     "1.fb2",
			expected: "notes.fb2",
		},
		{
			name:     "unsafe title",
			title:    "My/Book\x00?.fb2",
			file:     "1.fb2",
			expected: "MyBook.fb2",
		},
		{
			name:     "empty title falls back to the file",
			title:    "",
			file:     "dir/123456.fb2",
			expected: "123456.fb2",
		},
		{
			name:     "nothing usable",
			title:    "???",
			file:     "...",
			expected: "book.fb2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DownloadFilename(tt.title, tt.file))
		})
	}
}

func TestZipFilename(t *testing.T) {
	assert.Equal(t, "book.fb2.zip", ZipFilename("book.fb2"))
}
