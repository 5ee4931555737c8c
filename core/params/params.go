package params

import (
	"strconv"
	"strings"
	"time"

	"mentor-scheduler/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
	Type       string
	Start      *time.Time
	End        *time.Time
}

func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
		Type:       strings.TrimSpace(c.QueryParam("type")),
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		p.PageSize = min(v, constants.MaxPageSize)
	}

	p.Start = ParseTime(c.QueryParam("start"))
	p.End = ParseTime(c.QueryParam("end"))

	return p
}

// ParseTime accepts RFC3339 or a bare date (YYYY-MM-DD, UTC midnight).
func ParseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t
	}
	return nil
}

// MonthRange returns the start of now's month and the start of the next one.
func MonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
