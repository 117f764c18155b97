package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses a positive numeric path parameter, failing fast with 400
// before any service call.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// idempotencyScope namespaces a client key by the token subject so two
// callers sending the same key never share a slot.
func idempotencyScope(c echo.Context, key string) string {
	return fmt.Sprintf("%v:%s", c.Get("username"), key)
}
