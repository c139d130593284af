package fb2

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

const (
	// ChunkSize is the number of bytes read from the stream per step.
	ChunkSize = 128
	// DefaultHeaderLimit bounds how much of a document is buffered while
	// looking for the end of the description.
	DefaultHeaderLimit = 1 << 20
)

var (
	ErrNoHeader       = errors.New("fb2: no description found")
	ErrHeaderTooLarge = errors.New("fb2: description exceeds header limit")
)

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	descriptionEnd = []byte("</description>")
	headerTrailer  = []byte("</description></FictionBook>")
)

// LoadHeader reads r until the closing description tag and returns everything
// before it, re-terminated so that the result is a standalone XML document.
// The body of the book is never read. A limit of zero or less means
// DefaultHeaderLimit.
func LoadHeader(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultHeaderLimit
	}

	chunk := make([]byte, ChunkSize)
	acc := make([]byte, 0, 4*ChunkSize)
	first := true

	for {
		// ReadFull keeps chunks at a fixed size even for readers that return
		// short reads, so the BOM check always sees the first three bytes.
		n, err := io.ReadFull(r, chunk)
		if n == 0 {
			if err == nil || errors.Is(err, io.EOF) {
				return nil, ErrNoHeader
			}
			return nil, errors.WithStack(err)
		}

		data := chunk[:n]
		if first {
			first = false
			data = bytes.TrimPrefix(data, utf8BOM)
		}
		acc = append(acc, data...)

		start := 0
		if len(acc) > ChunkSize+len(descriptionEnd) {
			start = len(acc) - ChunkSize - len(descriptionEnd)
		}
		if p := bytes.Index(acc[start:], descriptionEnd); p >= 0 {
			acc = acc[:start+p]
			return append(acc, headerTrailer...), nil
		}

		if len(acc) > limit {
			return nil, ErrHeaderTooLarge
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil, ErrNoHeader
		default:
			return nil, errors.WithStack(err)
		}
	}
}
