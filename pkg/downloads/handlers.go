package downloads

import (
	"mime"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/extractor"
)

type handler struct {
	extractor *extractor.Service
}

func (h *handler) download(c echo.Context) error {
	return h.serve(c, downloadPrefix, extractor.Options{})
}

func (h *handler) downloadZip(c echo.Context) error {
	return h.serve(c, downloadZipPrefix, extractor.Options{Zip: true})
}

func (h *handler) serve(c echo.Context, prefix string, opts extractor.Options) error {
	ctx := c.Request().Context()
	log := logger.FromEchoContext(c)

	archiveName, bookFile, err := bookParams(c, prefix)
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.extractor.Extract(ctx, archiveName, bookFile, opts)
	if err != nil {
		return errors.WithStack(err)
	}
	// Runs after the body is written, including when the client went away.
	defer func() {
		if err := result.Close(); err != nil {
			log.Err(err).Warn("failed to remove scratch files")
		}
	}()

	c.Response().Header().Set(echo.HeaderContentType, result.ContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition(result.Filename))
	return errors.WithStack(c.File(result.Path))
}

// contentDisposition marks the response as an attachment. Non-ASCII names
// are sent in the RFC 2231 filename* form.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// bookParams splits the escaped request path after prefix into the archive
// name and the book file name. The book file keeps any slashes it has; an
// escaped slash in the archive segment is decoded too.
func bookParams(c echo.Context, prefix string) (string, string, error) {
	rest := strings.TrimPrefix(c.Request().URL.EscapedPath(), prefix)
	rawArchive, rawBook, ok := strings.Cut(rest, "/")
	if !ok || rawArchive == "" || rawBook == "" {
		return "", "", errcodes.NotFound("Book")
	}
	archiveName, err := url.PathUnescape(rawArchive)
	if err != nil {
		return "", "", errcodes.NotFound("Book")
	}
	bookFile, err := url.PathUnescape(rawBook)
	if err != nil {
		return "", "", errcodes.NotFound("Book")
	}
	return archiveName, bookFile, nil
}
