package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	e.GET("/boom", func(echo.Context) error { panic("boom") })
	e.GET("/ok", func(c echo.Context) error { return SuccessResponse(c, map[string]string{"k": "v"}) })
}

func TestServerErrors(t *testing.T) {
	s := NewServer(routes{}, nil, WithCORS(false))
	e := s.Echo()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":{"k":"v"}}`, rec.Body.String())
}

func TestServerOptions(t *testing.T) {
	s := NewServer(nil, nil, WithTimeouts(1, 2, 3), WithPort(9090))
	assert.EqualValues(t, 3, s.ShutdownTimeout())
	assert.EqualValues(t, 1, s.Echo().Server.ReadTimeout)
}
