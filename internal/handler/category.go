package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/repository"
	"github.com/kennelapp/dog-kennel/internal/service"
)

// CategoryHandler serves the breed catalog.  Reads of the full list go
// through the read-through cache; write paths notify the cache so
// invalidation-on-write can be enabled per deployment.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
	DogRepo    *repository.DogRepo
	Cache      *service.CategoryCache
}

func NewCategoryHandler(categories *repository.CategoryRepo, dogs *repository.DogRepo, cache *service.CategoryCache) *CategoryHandler {
	return &CategoryHandler{Categories: categories, DogRepo: dogs, Cache: cache}
}

// List handles GET /v1/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.Cache.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Search handles GET /v1/categories/search?q= with a case-insensitive
// substring match on the breed name.  Search results bypass the cache.
func (h *CategoryHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	items, err := h.Categories.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Dogs handles GET /v1/categories/:id/dogs and lists every dog of one
// breed.
func (h *CategoryHandler) Dogs(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	dogs, err := h.DogRepo.ListByCategory(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"category": cat, "items": dogs, "count": len(dogs)})
}

// Create handles POST /v1/categories (admin only, gated at the route).
func (h *CategoryHandler) Create(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cat := &repository.Category{Name: body.Name, Description: body.Description}
	if err := h.Categories.Create(c.Request().Context(), cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create category"})
	}
	h.Cache.OnWrite(c.Request().Context())
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /v1/categories/:id (admin only, gated at the route).
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.Categories.Update(c.Request().Context(), id, body.Name, body.Description); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Cache.OnWrite(c.Request().Context())
	updated, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/categories/:id (admin only, gated at the
// route).  The category's dogs, their parent records and reviews go with
// it.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Cache.OnWrite(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
