package fb2

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DefaultLanguage is assumed for documents that don't declare one.
const DefaultLanguage = "ru"

// Author is a person credited in title-info. Any of the fields may be empty.
type Author struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Nickname   string `json:"nickname"`
	ID         string `json:"id"`
}

// Description is the subset of an FB2 <description> that the catalog stores.
type Description struct {
	Title       *string  `json:"title"`
	Lang        *string  `json:"lang"`
	Authors     []Author `json:"authors"`
	Translators []Author `json:"translators"`
	Genres      []string `json:"genres"`
}

// Language returns the declared language, or DefaultLanguage when absent.
func (d *Description) Language() string {
	if d.Lang == nil {
		return DefaultLanguage
	}
	return *d.Lang
}

// TitleOr returns the title or fallback when the document has none.
func (d *Description) TitleOr(fallback string) string {
	if d.Title == nil {
		return fallback
	}
	return *d.Title
}

// ParseError is returned when the normalized header is not well-formed XML.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fb2: parse error: %s", e.Msg)
}

type xmlAuthor struct {
	FirstName  string `xml:"first-name"`
	MiddleName string `xml:"middle-name"`
	LastName   string `xml:"last-name"`
	Nickname   string `xml:"nickname"`
	ID         string `xml:"id"`
}

type xmlTitleInfo struct {
	Genres      []string    `xml:"genre"`
	Authors     []xmlAuthor `xml:"author"`
	BookTitle   *string     `xml:"book-title"`
	Lang        *string     `xml:"lang"`
	Translators []xmlAuthor `xml:"translator"`
}

type xmlFictionBook struct {
	Description struct {
		TitleInfo xmlTitleInfo `xml:"title-info"`
	} `xml:"description"`
}

// Parse decodes the UTF-8 header produced by Normalize.
func Parse(text string) (*Description, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	// The text has already been transcoded, so whatever the prolog declares
	// is passed through untouched.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc xmlFictionBook
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}

	ti := doc.Description.TitleInfo
	d := &Description{
		Title:       trimmedOrNil(ti.BookTitle),
		Lang:        trimmedOrNil(ti.Lang),
		Authors:     convertAuthors(ti.Authors),
		Translators: convertAuthors(ti.Translators),
	}
	if d.Lang != nil {
		lang := strings.ToLower(*d.Lang)
		d.Lang = &lang
	}
	for _, g := range ti.Genres {
		d.Genres = append(d.Genres, strings.TrimSpace(g))
	}

	return d, nil
}

// ReadDescription extracts, normalizes and parses the description of the FB2
// document in r.
func ReadDescription(r io.Reader, limit int) (*Description, error) {
	header, err := LoadHeader(r, limit)
	if err != nil {
		return nil, err
	}
	text, err := Normalize(header)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

func convertAuthors(in []xmlAuthor) []Author {
	if len(in) == 0 {
		return nil
	}
	out := make([]Author, 0, len(in))
	for _, a := range in {
		out = append(out, Author{
			FirstName:  strings.TrimSpace(a.FirstName),
			MiddleName: strings.TrimSpace(a.MiddleName),
			LastName:   strings.TrimSpace(a.LastName),
			Nickname:   strings.TrimSpace(a.Nickname),
			ID:         strings.TrimSpace(a.ID),
		})
	}
	return out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
