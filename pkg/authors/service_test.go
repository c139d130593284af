package authors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/fb2catalog/internal/testgen"
	"github.com/shishobooks/fb2catalog/pkg/binder"
	"github.com/shishobooks/fb2catalog/pkg/catalog"
	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/shishobooks/fb2catalog/pkg/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupCatalog(t *testing.T) *bun.DB {
	t.Helper()
	db := testgen.NewDB(t)
	dir := testgen.TempDir(t, "authors-*")
	path := testgen.GenerateArchive(t, dir, "authors.zip",
		testgen.ArchiveEntry{Name: "1.fb2", Data: testgen.GenerateFB2(t, testgen.FB2Options{
			Title: "Война и мир", Lang: "ru", Authors: []testgen.Person{{FirstName: "Лев", LastName: "Толстой"}},
		})},
		testgen.ArchiveEntry{Name: "2.fb2", Data: testgen.GenerateFB2(t, testgen.FB2Options{
			Title: "Аэлита", Lang: "ru", Authors: []testgen.Person{{FirstName: "Алексей", MiddleName: "Николаевич", LastName: "Толстой"}},
		})},
		testgen.ArchiveEntry{Name: "3.fb2", Data: testgen.GenerateFB2(t, testgen.FB2Options{
			Title: "Вий", Lang: "ru", Authors: []testgen.Person{{FirstName: "Николай", LastName: "Гоголь"}},
		})},
	)
	_, err := ingest.New(config.NewForTest(), db).Load(context.Background(), path, ingest.Options{})
	require.NoError(t, err)
	return db
}

func TestListAuthors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(setupCatalog(t))

	authors, err := svc.ListAuthors(ctx, ListAuthorsOptions{})
	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "Гоголь", authors[0].LastName)
	assert.Equal(t, "Алексей", authors[1].FirstName)
	assert.Equal(t, "Лев", authors[2].FirstName)

	last := "Тол"
	authors, err = svc.ListAuthors(ctx, ListAuthorsOptions{LastName: &last})
	require.NoError(t, err)
	assert.Len(t, authors, 2)

	middle := "Ник"
	authors, err = svc.ListAuthors(ctx, ListAuthorsOptions{LastName: &last, MiddleName: &middle})
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Алексей", authors[0].FirstName)

	limit := 1
	authors, err = svc.ListAuthors(ctx, ListAuthorsOptions{Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}

func TestNameChars(t *testing.T) {
	svc := NewService(setupCatalog(t))

	chars, err := svc.NameChars(context.Background(), catalog.FieldFirstName, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"А", "Л", "Н"}, chars)

	chars, err = svc.NameChars(context.Background(), catalog.FieldMiddleName, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Н"}, chars)
}

func TestHandlers(t *testing.T) {
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, setupCatalog(t))

	t.Run("name chars", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/authors/last_name?prefix=%D0%A2", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(tt, http.StatusOK, rec.Code)

		var chars []string
		require.NoError(tt, json.Unmarshal(rec.Body.Bytes(), &chars))
		assert.Equal(tt, []string{"То"}, chars)
	})

	t.Run("unknown field", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/authors/nickname", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(tt, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid limit", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/authors?limit=0", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(tt, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("list", func(tt *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/authors?first_name=%D0%9B", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(tt, http.StatusOK, rec.Code)

		var resp struct {
			Authors []struct {
				LastName string `json:"last_name"`
			} `json:"authors"`
		}
		require.NoError(tt, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(tt, resp.Authors, 1)
		assert.Equal(tt, "Толстой", resp.Authors[0].LastName)
	})
}
