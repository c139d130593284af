package authors

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/models"
)

type handler struct {
	authorService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	authors, err := h.authorService.ListAuthors(ctx, ListAuthorsOptions{
		Limit:      &params.Limit,
		Offset:     &params.Offset,
		FirstName:  params.FirstName,
		MiddleName: params.MiddleName,
		LastName:   params.LastName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Authors []*models.Author `json:"authors"`
	}{authors}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) nameChars(c echo.Context) error {
	ctx := c.Request().Context()

	field, ok := catalog.AuthorField(c.Param("field"))
	if !ok {
		return errcodes.NotFound("Field")
	}

	params := NameCharsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chars, err := h.authorService.NameChars(ctx, field, params.Prefix)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chars))
}
