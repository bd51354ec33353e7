package handler

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/repository"
	"github.com/kennelapp/dog-kennel/internal/utils"
	"github.com/kennelapp/dog-kennel/internal/validate"
)

const (
	reviewTitleMax = 150
	reviewSlugMax  = 25

	// slugRetries bounds the random slug generation loop; collisions on a
	// 20-char random slug are effectively impossible, the bound only keeps
	// the loop finite under a broken RNG.
	slugRetries = 5
)

// ReviewHandler bundles dependencies for the review endpoints.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Dogs    *repository.DogRepo
}

func NewReviewHandler(reviews *repository.ReviewRepo, dogs *repository.DogRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Dogs: dogs}
}

// List handles GET /v1/reviews and returns active reviews only.
func (h *ReviewHandler) List(c echo.Context) error {
	items, err := h.Reviews.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []repository.Review{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ListDeactivated handles GET /v1/reviews/deactivated.
func (h *ReviewHandler) ListDeactivated(c echo.Context) error {
	items, err := h.Reviews.ListDeactivated(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []repository.Review{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ListByDog handles GET /v1/dogs/:id/reviews and returns the active
// reviews of one dog.
func (h *ReviewHandler) ListByDog(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Dogs.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrDogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Reviews.ListActiveByDog(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []repository.Review{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Detail handles GET /v1/reviews/:slug.
func (h *ReviewHandler) Detail(c echo.Context) error {
	rv, err := h.Reviews.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rv)
}

// Create handles POST /v1/reviews.  Moderators cannot author reviews.  A
// client may supply its own slug; the sentinel value (or an empty slug)
// asks the server to mint a random one.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, ok := getRole(c)
	if !ok || !role.CanCreateReview() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var body struct {
		Title   string `json:"title"`
		Slug    string `json:"slug"`
		Content string `json:"content"`
		DogID   uint64 `json:"dog_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var fe validate.FieldErrors
	body.Title = strings.TrimSpace(body.Title)
	body.Slug = strings.TrimSpace(body.Slug)
	if body.Title == "" {
		fe.Add("title", "title is required")
	} else if utf8.RuneCountInString(body.Title) > reviewTitleMax {
		fe.Add("title", "title is too long")
	}
	if strings.TrimSpace(body.Content) == "" {
		fe.Add("content", "content is required")
	}
	if utf8.RuneCountInString(body.Slug) > reviewSlugMax {
		fe.Add("slug", "slug is too long")
	}
	if body.DogID == 0 {
		fe.Add("dog_id", "dog is required")
	} else if _, err := h.Dogs.GetByID(c.Request().Context(), body.DogID); err != nil {
		fe.Add("dog_id", "unknown dog")
	}
	if !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}

	slug := body.Slug
	if slug == "" || slug == utils.SentinelSlug {
		slug, err = h.freshSlug(c)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate slug"})
		}
	}

	rv := &repository.Review{
		Title:        body.Title,
		Slug:         slug,
		Content:      body.Content,
		SignOfReview: true,
		AutorID:      &uid,
		DogID:        body.DogID,
	}
	if err := h.Reviews.Create(c.Request().Context(), rv); err != nil {
		if err == repository.ErrSlugTaken {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
	}
	return c.JSON(http.StatusCreated, rv)
}

// freshSlug mints a random slug not yet present in the reviews table.
func (h *ReviewHandler) freshSlug(c echo.Context) (string, error) {
	for i := 0; i < slugRetries; i++ {
		s, err := utils.GenerateSlug()
		if err != nil {
			return "", err
		}
		taken, err := h.Reviews.SlugExists(c.Request().Context(), s)
		if err != nil {
			return "", err
		}
		if !taken {
			return s, nil
		}
	}
	return "", repository.ErrSlugTaken
}

// Update handles PUT /v1/reviews/:slug.  Permitted for the review's
// author or a staff role.  Slug and creation time never change.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slug := c.Param("slug")
	rv, err := h.Reviews.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	role, ok := getRole(c)
	isAuthor := rv.AutorID != nil && *rv.AutorID == uid
	if !isAuthor && (!ok || !role.CanModerate()) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var fe validate.FieldErrors
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		fe.Add("title", "title is required")
	} else if utf8.RuneCountInString(body.Title) > reviewTitleMax {
		fe.Add("title", "title is too long")
	}
	if strings.TrimSpace(body.Content) == "" {
		fe.Add("content", "content is required")
	}
	if !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}

	if err := h.Reviews.Update(c.Request().Context(), slug, body.Title, body.Content); err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Reviews.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/reviews/:slug for staff roles.
func (h *ReviewHandler) Delete(c echo.Context) error {
	role, ok := getRole(c)
	if !ok || !role.CanDelete() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	if err := h.Reviews.DeleteBySlug(c.Request().Context(), c.Param("slug")); err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleActivity handles POST /v1/reviews/:slug/toggle.  The response
// names the list the review now belongs to.
func (h *ReviewHandler) ToggleActivity(c echo.Context) error {
	slug := c.Param("slug")
	active, err := h.Reviews.ToggleBySlug(c.Request().Context(), slug)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	list := "deactivated"
	if active {
		list = "active"
	}
	return c.JSON(http.StatusOK, echo.Map{"slug": slug, "sign_of_review": active, "list": list})
}
