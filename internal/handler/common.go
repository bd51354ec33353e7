package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/domain"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim from echo.Context and parses it through
// the closed role enumeration.  Unknown or missing roles report false so
// every caller fails closed.
func getRole(c echo.Context) (domain.Role, bool) {
	raw, ok := c.Get("role").(string)
	if !ok {
		return "", false
	}
	return domain.ParseRole(raw)
}
