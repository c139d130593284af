package catalog

import (
	"context"
	"testing"

	"github.com/shishobooks/fb2catalog/internal/testgen"
	"github.com/shishobooks/fb2catalog/pkg/fb2"
	"github.com/shishobooks/fb2catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePrefix(t *testing.T) {
	tcs := map[string]string{
		"":       "%",
		"Тол":    "Тол%",
		"50%":    "50!%%",
		"a_b":    "a!_b%",
		"wow!":   "wow!!%",
		`back\s`: `back\s%`,
	}
	for prefix, want := range tcs {
		assert.Equal(t, want, LikePrefix(prefix), prefix)
	}
}

func TestAuthorField(t *testing.T) {
	f, ok := AuthorField("middle_name")
	assert.True(t, ok)
	assert.Equal(t, FieldMiddleName, f)

	_, ok = AuthorField("nickname")
	assert.False(t, ok)
	_, ok = AuthorField("title")
	assert.False(t, ok)
}

func TestNextChars(t *testing.T) {
	ctx := context.Background()
	db := testgen.NewDB(t)
	svc := NewService(db)

	archive, err := svc.SaveArchive(ctx, newArchive())
	require.NoError(t, err)

	books := []struct {
		title   string
		authors []fb2.Author
	}{
		{"Война и мир", []fb2.Author{{FirstName: "Лев", LastName: "Толстой"}}},
		{"Аэлита", []fb2.Author{{FirstName: "Алексей", LastName: "Толстой"}}},
		{"Вий", []fb2.Author{{FirstName: "Николай", LastName: "Гоголь"}}},
		{"100% Fiction", []fb2.Author{{LastName: "To_do"}}},
	}
	for i, b := range books {
		res, err := svc.SaveBook(ctx, &models.Book{ArchiveID: archive.ID, File: b.title + ".fb2", CRC32: int64(i)})
		require.NoError(t, err)
		title := b.title
		require.NoError(t, svc.SaveContent(ctx, res.ID, &fb2.Description{Title: &title, Authors: b.authors}))
	}

	t.Run("empty prefix lists first characters", func(tt *testing.T) {
		got, err := NextChars(ctx, db, FieldLastName, "")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"T", "Г", "Т"}, got)
	})

	t.Run("extends the prefix by one character", func(tt *testing.T) {
		got, err := NextChars(ctx, db, FieldLastName, "Толсто")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"Толстой"}, got)
	})

	t.Run("complete values come back unchanged", func(tt *testing.T) {
		got, err := NextChars(ctx, db, FieldLastName, "Гоголь")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"Гоголь"}, got)
	})

	t.Run("empty values are skipped", func(tt *testing.T) {
		got, err := NextChars(ctx, db, FieldFirstName, "")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"А", "Л", "Н"}, got)
	})

	t.Run("wildcards in the prefix are literal", func(tt *testing.T) {
		got, err := NextChars(ctx, db, FieldLastName, "To_")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"To_d"}, got)

		got, err = NextChars(ctx, db, FieldTitle, "100%")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"100% "}, got)

		got, err = NextChars(ctx, db, FieldTitle, "1_0")
		require.NoError(tt, err)
		assert.Empty(tt, got)
	})

	t.Run("titles", func(tt *testing.T) {
		got, err := NextChars(ctx, db, FieldTitle, "В")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"Ви", "Во"}, got)
	})
}
