package fb2

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Canonical names returned by DetectEncoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingKOI8R       = "koi8-r"
	EncodingWindows1251 = "windows-1251"
)

// prologWindow is how far into the header the XML declaration is looked for.
const prologWindow = 128

var ErrTranscode = errors.New("fb2: unable to transcode header")

var (
	prologStart    = []byte("<?xml ")
	prologEnd      = []byte("?>")
	encodingAttr   = []byte("encoding=")
	knownEncodings = map[string]string{
		"utf-8":        EncodingUTF8,
		"utf8":         EncodingUTF8,
		"koi8-r":       EncodingKOI8R,
		"windows-1251": EncodingWindows1251,
		"cp1251":       EncodingWindows1251,
	}
)

// entityPattern matches a well-formed XML entity at the start of a string.
var entityPattern = regexp.MustCompile(`^&(?:amp|lt|gt|quot|apos|#[0-9]+|#[xX][0-9a-fA-F]+);`)

// DetectEncoding returns the canonical name of the encoding declared in the
// XML prolog, or an empty string when there is no prolog or the declared
// encoding is not one we transcode.
func DetectEncoding(header []byte) string {
	head := header
	if len(head) > prologWindow {
		head = head[:prologWindow]
	}

	start := bytes.Index(head, prologStart)
	if start < 0 {
		return ""
	}
	decl := head[start+len(prologStart):]
	end := bytes.Index(decl, prologEnd)
	if end < 0 {
		return ""
	}
	decl = decl[:end]

	i := bytes.Index(decl, encodingAttr)
	if i < 0 {
		return ""
	}
	value := decl[i+len(encodingAttr):]
	if len(value) == 0 || (value[0] != '"' && value[0] != '\'') {
		return ""
	}
	quote := value[0]
	value = value[1:]
	closing := bytes.IndexByte(value, quote)
	if closing < 0 {
		return ""
	}

	return knownEncodings[strings.ToLower(string(bytes.TrimSpace(value[:closing])))]
}

// ToUTF8 converts the header to UTF-8 according to its declared encoding.
// Undeclared and unrecognised encodings are decoded as UTF-8, with invalid
// sequences replaced by U+FFFD.
func ToUTF8(header []byte) (string, error) {
	switch enc := DetectEncoding(header); enc {
	case EncodingKOI8R, EncodingWindows1251:
		e, _ := charset.Lookup(enc)
		if e == nil {
			return "", errors.Wrapf(ErrTranscode, "no decoder for %s", enc)
		}
		out, _, err := transform.Bytes(e.NewDecoder(), header)
		if err != nil {
			return "", errors.Wrapf(ErrTranscode, "%s: %s", enc, err)
		}
		return string(out), nil
	default:
		return strings.ToValidUTF8(string(header), "\uFFFD"), nil
	}
}

// EscapeAmpersands replaces every '&' that does not begin a well-formed XML
// entity with "&amp;".
func EscapeAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for {
		i := strings.IndexByte(s, '&')
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i:]
		if m := entityPattern.FindString(s); m != "" {
			b.WriteString(m)
			s = s[len(m):]
			continue
		}
		b.WriteString("&amp;")
		s = s[1:]
	}
}

// Normalize turns a raw header from LoadHeader into UTF-8 text that the XML
// decoder can digest.
func Normalize(header []byte) (string, error) {
	text, err := ToUTF8(header)
	if err != nil {
		return "", err
	}
	return EscapeAmpersands(text), nil
}
