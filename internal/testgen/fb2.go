package testgen

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const fillerParagraph = "<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor.</p>\n"

// GenerateFB2 renders an FB2 document with the given options. The result is
// encoded according to opts.Encoding.
func GenerateFB2(t *testing.T, opts FB2Options) []byte {
	t.Helper()

	var buf bytes.Buffer

	quote := `"`
	if opts.SingleQuote {
		quote = `'`
	}
	enc := opts.Encoding
	if enc == "" {
		enc = "utf-8"
	}
	if !opts.NoProlog {
		buf.WriteString(fmt.Sprintf("<?xml version=%s1.0%s encoding=%s%s%s?>\n", quote, quote, quote, enc, quote))
	}

	buf.WriteString(`<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0" xmlns:l="http://www.w3.org/1999/xlink">` + "\n")
	buf.WriteString("<description>\n<title-info>\n")
	for _, g := range opts.Genres {
		buf.WriteString(fmt.Sprintf("<genre>%s</genre>\n", escapeXML(g)))
	}
	for _, a := range opts.Authors {
		writePerson(&buf, "author", a)
	}
	if opts.Title != "" {
		title := escapeXML(opts.Title)
		if opts.RawTitle {
			title = opts.Title
		}
		buf.WriteString(fmt.Sprintf("<book-title>%s</book-title>\n", title))
	}
	if opts.Lang != "" {
		buf.WriteString(fmt.Sprintf("<lang>%s</lang>\n", escapeXML(opts.Lang)))
	}
	for _, a := range opts.Translators {
		writePerson(&buf, "translator", a)
	}
	buf.WriteString("</title-info>\n")
	buf.WriteString("<document-info><program-used>testgen</program-used></document-info>\n")

	if opts.Truncate {
		return encodeText(t, buf.String(), enc, opts.BOM)
	}

	buf.WriteString("</description>\n<body>\n<section>\n")
	size := opts.BodySize
	if size <= 0 {
		size = 4096
	}
	for written := 0; written < size; written += len(fillerParagraph) {
		buf.WriteString(fillerParagraph)
	}
	buf.WriteString("</section>\n</body>\n</FictionBook>\n")

	return encodeText(t, buf.String(), enc, opts.BOM)
}

func writePerson(buf *bytes.Buffer, tag string, a Person) {
	buf.WriteString("<" + tag + ">")
	fields := []struct {
		name, value string
	}{
		{"first-name", a.FirstName},
		{"middle-name", a.MiddleName},
		{"last-name", a.LastName},
		{"nickname", a.Nickname},
		{"id", a.ID},
	}
	for _, f := range fields {
		if f.value != "" {
			buf.WriteString(fmt.Sprintf("<%s>%s</%s>", f.name, escapeXML(f.value), f.name))
		}
	}
	buf.WriteString("</" + tag + ">\n")
}

func encodeText(t *testing.T, text, enc string, bom bool) []byte {
	t.Helper()

	var out []byte
	var encoder *encoding.Encoder
	switch strings.ToLower(enc) {
	case "windows-1251", "cp1251":
		encoder = charmap.Windows1251.NewEncoder()
	case "koi8-r":
		encoder = charmap.KOI8R.NewEncoder()
	}
	if encoder != nil {
		encoded, err := encoder.String(text)
		if err != nil {
			t.Fatalf("failed to encode document as %s: %v", enc, err)
		}
		out = []byte(encoded)
	} else {
		out = []byte(text)
	}

	if bom {
		out = append([]byte{0xEF, 0xBB, 0xBF}, out...)
	}
	return out
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
