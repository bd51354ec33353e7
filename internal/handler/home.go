package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/service"
)

// homeCategoryLimit caps how many categories the landing payload carries.
const homeCategoryLimit = 3

// HomeHandler serves the public landing payload and the health probe.
type HomeHandler struct {
	Cache *service.CategoryCache
}

func NewHomeHandler(cache *service.CategoryCache) *HomeHandler {
	return &HomeHandler{Cache: cache}
}

// Index handles GET / with a small teaser of the catalog.
func (h *HomeHandler) Index(c echo.Context) error {
	list, err := h.Cache.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if len(list) > homeCategoryLimit {
		list = list[:homeCategoryLimit]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":      "Dog Kennel",
		"categories": list,
	})
}

// Health handles GET /healthz.
func (h *HomeHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
