package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		authorService: NewService(db),
	}

	e.GET("/authors", h.list)
	e.GET("/authors/:field", h.nameChars)
}
