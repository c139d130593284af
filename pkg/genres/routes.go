package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		genreService: NewService(db),
	}

	e.GET("/genres", h.list)
	e.GET("/genres/:name", h.retrieve)
}
