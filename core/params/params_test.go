package params

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryParams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=500&type=booking&start=2026-03-01&end=2026-03-02T10:00:00Z", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	p := NewQueryParams(c)
	assert.Equal(t, 2, p.PageNumber)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, "booking", p.Type)
	require.NotNil(t, p.Start)
	require.NotNil(t, p.End)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *p.Start)
	assert.Equal(t, 10, p.End.Hour())
}

func TestNewQueryParamsDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=-1&start=junk", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	p := NewQueryParams(c)
	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, 20, p.PageSize)
	assert.Nil(t, p.Start)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(time.Date(2026, 12, 15, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
