package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/models"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	records, err := h.bookService.ListBookRecords(ctx, ListBookRecordsOptions{
		Limit:      &params.Limit,
		Offset:     &params.Offset,
		FirstName:  params.FirstName,
		MiddleName: params.MiddleName,
		LastName:   params.LastName,
		Title:      params.Title,
		Genre:      params.Genre,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.BookRecord `json:"books"`
	}{records}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) titleChars(c echo.Context) error {
	ctx := c.Request().Context()

	params := TitleCharsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chars, err := h.bookService.TitleChars(ctx, params.Prefix)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chars))
}
