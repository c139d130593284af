package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/fb2catalog/pkg/binder"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, setupCatalog(t))
	return e
}

func TestHandlers(t *testing.T) {
	e := newTestServer(t)

	t.Run("list books by author", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books?last_name=%D0%A2%D0%BE%D0%BB%D1%81%D1%82%D0%BE%D0%B9", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(tt, http.StatusOK, rec.Code)

		var resp struct {
			Books []*models.BookRecord `json:"books"`
		}
		require.NoError(tt, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(tt, resp.Books, 2)
		assert.NotContains(tt, rec.Body.String(), "arch_home")
		assert.Empty(tt, resp.Books[0].ArchiveHome)
	})

	t.Run("invalid limit", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books?limit=0", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(tt, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown parameter", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles?q=x", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(tt, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(tt, rec.Body.String(), "unknown_parameter")
	})

	t.Run("title chars", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles?prefix=%D0%90", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(tt, http.StatusOK, rec.Code)

		var chars []string
		require.NoError(tt, json.Unmarshal(rec.Body.Bytes(), &chars))
		assert.Equal(tt, []string{"Ан"}, chars)
	})
}
