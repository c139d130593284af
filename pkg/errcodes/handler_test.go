package errcodes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "custom error",
			err:          errors.WithStack(NotFound("Book")),
			expectedCode: http.StatusNotFound,
			expectedBody: "not_found",
		},
		{
			name:         "echo error",
			err:          echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			expectedCode: http.StatusMethodNotAllowed,
			expectedBody: "method_not_allowed",
		},
		{
			name:         "generic error",
			err:          errors.New("disk on fire"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHandler().Handle(tt.err, c)

			assert.Equal(t, tt.expectedCode, rec.Code)
			var payload struct {
				Error struct {
					Code       string `json:"code"`
					StatusCode int    `json:"status_code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, tt.expectedBody, payload.Error.Code)
			assert.Equal(t, tt.expectedCode, payload.Error.StatusCode)
		})
	}
}

func TestNotFoundIs(t *testing.T) {
	err := errors.Wrap(NotFound("Archive"), "loading")
	assert.True(t, errors.Is(err, NotFound("Archive")))
	assert.False(t, errors.Is(err, NotFound("Book")))
}
