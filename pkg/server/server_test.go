package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shishobooks/fb2catalog/internal/testgen"
	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresInterface(t *testing.T) {
	cfg := config.NewForTest()
	cfg.Interface = ""

	_, err := New(cfg, testgen.NewDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTERFACE")
}

func TestNew(t *testing.T) {
	cfg := config.NewForTest()
	srv, err := New(cfg, testgen.NewDB(t))
	require.NoError(t, err)
	assert.Equal(t, cfg.Interface, srv.Addr)
}

func TestRoutes(t *testing.T) {
	cfg := config.NewForTest()
	cfg.WorkDir = t.TempDir()
	db := testgen.NewDB(t)

	dir := testgen.TempDir(t, "server-*")
	path := testgen.GenerateArchive(t, dir, "books.zip", testgen.ArchiveEntry{
		Name: "1.fb2",
		Data: testgen.GenerateFB2(t, testgen.FB2Options{
			Title:   "Война и мир",
			Lang:    "ru",
			Authors: []testgen.Person{{FirstName: "Лев", LastName: "Толстой"}},
		}),
	})
	_, err := ingest.New(cfg, db).Load(context.Background(), path, ingest.Options{})
	require.NoError(t, err)

	e, err := NewEcho(cfg, db)
	require.NoError(t, err)

	tests := []struct {
		target string
		code   int
	}{
		{"/health", http.StatusOK},
		{"/config", http.StatusOK},
		{"/books", http.StatusOK},
		{"/titles?prefix=%D0%92", http.StatusOK},
		{"/authors", http.StatusOK},
		{"/authors/last_name", http.StatusOK},
		{"/authors/uuid", http.StatusNotFound},
		{"/genres", http.StatusOK},
		{"/download/books.zip/1.fb2", http.StatusOK},
		{"/download_zip/books.zip/1.fb2", http.StatusOK},
		{"/download/books.zip/2.fb2", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}
