package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/config"
	"github.com/kennelapp/dog-kennel/internal/domain"
	"github.com/kennelapp/dog-kennel/internal/queue"
	"github.com/kennelapp/dog-kennel/internal/repository"
	"github.com/kennelapp/dog-kennel/internal/validate"
)

// viewsMilestone is the notification interval for the dog detail page:
// every time the counter crosses a multiple of this value the owner is
// mailed.
const viewsMilestone = 20

// DogHandler bundles dependencies for the dog catalog endpoints.
type DogHandler struct {
	Cfg        config.Config
	Dogs       *repository.DogRepo
	Parents    *repository.ParentRepo
	Categories *repository.CategoryRepo
	Users      *repository.UserRepo
	Notifier   queue.Notifier
}

func NewDogHandler(cfg config.Config, dogs *repository.DogRepo, parents *repository.ParentRepo,
	categories *repository.CategoryRepo, users *repository.UserRepo, n queue.Notifier) *DogHandler {
	return &DogHandler{Cfg: cfg, Dogs: dogs, Parents: parents, Categories: categories, Users: users, Notifier: n}
}

type dogReq struct {
	Name       string     `json:"name"`
	CategoryID uint64     `json:"category_id"`
	Photo      *string    `json:"photo"`
	BirthDate  *time.Time `json:"birth_date"`
}

// validateDog checks the shared dog field rules.
func (h *DogHandler) validateDog(c echo.Context, body *dogReq) validate.FieldErrors {
	var fe validate.FieldErrors
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		fe.Add("name", "name is required")
	}
	if body.CategoryID == 0 {
		fe.Add("category_id", "category is required")
	} else if _, err := h.Categories.GetByID(c.Request().Context(), body.CategoryID); err != nil {
		fe.Add("category_id", "unknown category")
	}
	if err := validate.BirthDate(body.BirthDate, time.Now()); err != nil {
		fe.Add("birth_date", err.Error())
	}
	return fe
}

// List handles GET /v1/dogs and returns active dogs only.
func (h *DogHandler) List(c echo.Context) error {
	items, err := h.Dogs.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Search handles GET /v1/dogs/search?q= over active dogs.
func (h *DogHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	items, err := h.Dogs.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ListDeactivated handles GET /v1/dogs/deactivated.  Staff roles see every
// inactive dog, a plain user sees only their own, and any other role value
// gets an empty list.
func (h *DogHandler) ListDeactivated(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, ok := getRole(c)

	var items []repository.Dog
	switch {
	case ok && role.CanModerate():
		items, err = h.Dogs.ListDeactivated(c.Request().Context())
	case ok && role == domain.RoleUser:
		items, err = h.Dogs.ListDeactivatedByOwner(c.Request().Context(), uid)
	default:
		// Unknown role: fail closed with an empty set.
		items = nil
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []repository.Dog{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Create handles POST /v1/dogs.  Only the plain user role registers dogs,
// and the creator becomes the owner.
func (h *DogHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, ok := getRole(c)
	if !ok || !role.CanCreateDog() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	var body dogReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if fe := h.validateDog(c, &body); !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}

	dog := &repository.Dog{
		Name:       body.Name,
		CategoryID: body.CategoryID,
		Photo:      body.Photo,
		BirthDate:  body.BirthDate,
		IsActive:   true,
		OwnerID:    &uid,
	}
	if err := h.Dogs.Create(c.Request().Context(), dog); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create dog"})
	}
	return c.JSON(http.StatusCreated, dog)
}

// Detail handles GET /v1/dogs/:id.  Viewing a dog you do not own bumps the
// view counter by exactly one; when the new count reaches a positive
// multiple of the milestone and the dog has an owner, the owner is mailed.
func (h *DogHandler) Detail(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	dog, err := h.Dogs.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrDogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if dog.OwnerID == nil || *dog.OwnerID != uid {
		views, err := h.Dogs.IncrementViews(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		dog.Views = views

		if dog.OwnerID != nil && views > 0 && views%viewsMilestone == 0 {
			if owner, err := h.Users.GetByID(c.Request().Context(), *dog.OwnerID); err == nil {
				publishMail(h.Notifier, h.Cfg.SMTPUser, owner.Email,
					fmt.Sprintf("%d views for %s", views, dog.Name),
					fmt.Sprintf("Yahoo! The record of %s has already been viewed %d times", dog.Name, views))
			}
		}
	}

	parents, err := h.Parents.ListByDog(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dog": dog, "parents": parents})
}

// Update handles PUT /v1/dogs/:id.  Permitted for the dog's owner or an
// admin.  The request carries the dog fields together with the grouped
// parent editor; every parent edit is validated first and the whole write
// is atomic.
func (h *DogHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	dog, err := h.Dogs.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrDogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	role, ok := getRole(c)
	isOwner := dog.OwnerID != nil && *dog.OwnerID == uid
	if !isOwner && (!ok || role != domain.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	var body struct {
		dogReq
		Parents []repository.ParentEdit `json:"parents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	fe := h.validateDog(c, &body.dogReq)
	for i := range body.Parents {
		e := &body.Parents[i]
		if e.Remove {
			if e.ID == 0 {
				fe.Add(fmt.Sprintf("parents[%d].id", i), "id is required to remove a record")
			}
			continue
		}
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			fe.Add(fmt.Sprintf("parents[%d].name", i), "name is required")
		}
		if e.CategoryID == 0 {
			fe.Add(fmt.Sprintf("parents[%d].category_id", i), "category is required")
		} else if _, err := h.Categories.GetByID(c.Request().Context(), e.CategoryID); err != nil {
			fe.Add(fmt.Sprintf("parents[%d].category_id", i), "unknown category")
		}
		if err := validate.BirthDate(e.BirthDate, time.Now()); err != nil {
			fe.Add(fmt.Sprintf("parents[%d].birth_date", i), err.Error())
		}
	}
	if !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}

	dog.Name = body.Name
	dog.CategoryID = body.CategoryID
	dog.Photo = body.Photo
	dog.BirthDate = body.BirthDate
	if err := h.Dogs.UpdateWithParents(c.Request().Context(), dog, body.Parents); err != nil {
		if err == repository.ErrDogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Dogs.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	parents, err := h.Parents.ListByDog(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dog": updated, "parents": parents})
}

// Delete handles DELETE /v1/dogs/:id.  This is the coarse delete
// capability: staff may delete any dog regardless of ownership.
func (h *DogHandler) Delete(c echo.Context) error {
	role, ok := getRole(c)
	if !ok || !role.CanDelete() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Dogs.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrDogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleActivity handles POST /v1/dogs/:id/toggle and flips the soft
// visibility flag unconditionally.  The response names the list the dog
// now belongs to.
func (h *DogHandler) ToggleActivity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	active, err := h.Dogs.ToggleActive(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrDogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	list := "deactivated"
	if active {
		list = "active"
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": active, "list": list})
}
