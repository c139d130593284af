package fileutils

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameBytes bounds a sanitized name, leaving room for an extension
	// inside the usual 255 byte filesystem limit.
	MaxNameBytes = 200

	FB2Ext = ".fb2"
	ZipExt = ".zip"

	fallbackName = "book"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename removes characters that are not safe in a file name or a
// Content-Disposition header. The result may be empty.
func SanitizeFilename(name string) string {
	name = strings.ToValidUTF8(name, "")

	// Different operating systems have different restrictions, so be
	// conservative.
	name = invalidChars.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")

	// Windows doesn't like trailing dots
	name = strings.Trim(name, " .")

	if len(name) > MaxNameBytes {
		cut := MaxNameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.Trim(name[:cut], " .")
	}

	return name
}

// DownloadFilename builds the name a book is served under: the sanitized
// title, or the base name of file when the title has nothing usable left,
// with a single .fb2 extension.
func DownloadFilename(title, file string) string {
	name := SanitizeFilename(stripExt(title, FB2Ext))
	if name == "" {
		name = SanitizeFilename(stripExt(path.Base(strings.ReplaceAll(file, `\`, "/")), FB2Ext))
	}
	if name == "" {
		name = fallbackName
	}
	return name + FB2Ext
}

// ZipFilename is the name of the single-entry archive wrapping filename.
func ZipFilename(filename string) string {
	return filename + ZipExt
}

func stripExt(name, ext string) string {
	if len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}
