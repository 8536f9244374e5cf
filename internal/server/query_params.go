package server

import (
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		return 0, newValidationError(name, "invalid_id", "must be a numeric id")
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newValidationError(name, "invalid_"+name, "must be an integer")
	}
	return v, nil
}

// yearQuarterParams reads ?year= and ?quarter=, defaulting to the
// current UTC period.
func (s *Server) yearQuarterParams(c *gin.Context) (int, int, error) {
	now := s.clock.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	quarter, err := queryInt(c, "quarter", (int(now.Month())-1)/3+1)
	if err != nil {
		return 0, 0, err
	}
	if quarter < 1 || quarter > 4 {
		return 0, 0, newValidationError("quarter", "invalid_quarter", "must be between 1 and 4")
	}
	return year, quarter, nil
}

func queryDate(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, newValidationError(name, "invalid_"+name, "must be YYYY-MM-DD")
	}
	return t.UTC(), nil
}
