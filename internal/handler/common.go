package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/middleware"
)

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// callerID returns the authenticated user id from the context, or zero for
// anonymous callers.
func callerID(c echo.Context) uint64 {
	if v, ok := c.Get(middleware.CtxUserID).(uint64); ok {
		return v
	}
	return 0
}

// callerRole returns the role claim from the context, or empty.
func callerRole(c echo.Context) string {
	if v, ok := c.Get(middleware.CtxRole).(string); ok {
		return v
	}
	return ""
}
