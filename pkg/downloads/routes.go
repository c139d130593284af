// Package downloads serves books straight out of their archives.
package downloads

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/extractor"
	"github.com/uptrace/bun"
)

const (
	downloadPrefix    = "/download/"
	downloadZipPrefix = "/download_zip/"
)

func RegisterRoutes(e *echo.Echo, cfg *config.Config, db *bun.DB) {
	h := &handler{
		extractor: extractor.NewService(cfg, db),
	}

	// Book file names may contain slashes, so they take the rest of the path.
	e.GET(downloadPrefix+":archive/*", h.download)
	e.GET(downloadZipPrefix+":archive/*", h.downloadZip)
}
