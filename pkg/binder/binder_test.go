package binder

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Prefix string `query:"prefix" mod:"trim" validate:"max=9,printable"`
	Limit  int    `query:"limit" default:"50" validate:"min=1,max=100"`
	Field  string `query:"field" default:"last_name" validate:"oneof=first_name middle_name last_name"`
}

func TestBind(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	require.NotNil(t, b)

	t.Run("decodes query params and applies defaults", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?prefix=%20%D0%A2%D0%BE%20"))
		require.NoError(tt, err)
		assert.Equal(tt, "То", p.Prefix)
		assert.Equal(tt, 50, p.Limit)
		assert.Equal(tt, "last_name", p.Field)
	})

	t.Run("validates explicit zero values", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?limit=0"))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"limit" must be greater than or equal to 1`)
	})

	t.Run("explicit values win over defaults", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?limit=7&field=first_name"))
		require.NoError(tt, err)
		assert.Equal(tt, 7, p.Limit)
		assert.Equal(tt, "first_name", p.Field)
	})

	t.Run("disallows unknown params", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?foo=bar"))
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?limit=lots"))
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("validates params", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?prefix=0123456789"))
		assert.Contains(tt, err.Error(), `"prefix" length must be less than or equal to 9 characters`)

		var ec *errcodes.Error
		require.ErrorAs(tt, err, &ec)
		assert.Equal(tt, "validation_error", ec.Code)
	})

	t.Run("rejects control characters", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?prefix=a%00b"))
		assert.Contains(tt, err.Error(), `"prefix" must not contain control characters`)
	})

	t.Run("rejects values outside of oneof", func(tt *testing.T) {
		p := params{}
		err := b.Bind(&p, newContext("/?field=nickname"))
		assert.Contains(tt, err.Error(), `"field" must be one of the following`)
	})
}

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, target, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
