package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/config"
	"github.com/kennelapp/dog-kennel/internal/queue"
	"github.com/kennelapp/dog-kennel/internal/repository"
	"github.com/kennelapp/dog-kennel/internal/utils"
	"github.com/kennelapp/dog-kennel/internal/validate"
)

// UserHandler bundles dependencies for the account and directory
// endpoints.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Notifier queue.Notifier
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, n queue.Notifier) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Notifier: n}
}

// List handles GET /v1/users and returns all active accounts ordered by id.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": users, "count": len(users)})
}

// Get handles GET /v1/users/:id and returns another user's profile.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateProfile handles PUT /v1/profile: the caller edits their own
// contact fields.  Email and role are not editable here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Phone     *string `json:"phone"`
		Telegram  *string `json:"telegram"`
		Avatar    *string `json:"avatar"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FirstName = strings.TrimSpace(body.FirstName)
	body.LastName = strings.TrimSpace(body.LastName)
	if body.FirstName == "" {
		body.FirstName = "Anonymous"
	}
	if body.LastName == "" {
		body.LastName = "Anonymous"
	}
	if err := h.Users.UpdateProfile(c.Request().Context(), uid,
		body.FirstName, body.LastName, body.Phone, body.Telegram, body.Avatar); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// ChangePassword handles POST /v1/profile/password.  The current password
// must verify before the new one is validated and stored.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		CurrentPassword    string `json:"current_password"`
		NewPassword        string `json:"new_password"`
		NewPasswordConfirm string `json:"new_password_confirm"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.CurrentPassword) {
		fe := validate.FieldErrors{"current_password": "wrong password"}
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}
	if fe := validate.PasswordPair(body.NewPassword, body.NewPasswordConfirm); !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}
	if err := h.Users.UpdatePassword(c.Request().Context(), uid, body.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "password changed"})
}

// GenerateNewPassword handles POST /v1/profile/genpassword.  The server
// issues a fresh random credential, stores it and mails it to the account
// address.  The generated value is 12 alphanumeric characters, inside the
// 8..16 policy window by construction, so it is not re-validated.
func (h *UserHandler) GenerateNewPassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	password, err := utils.GeneratePassword()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate failed"})
	}
	if err := h.Users.UpdatePassword(c.Request().Context(), uid, password, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	publishMail(h.Notifier, h.Cfg.SMTPUser, u.Email,
		"You have successfully changed the password!",
		fmt.Sprintf("Your new password: %s", password))

	return c.JSON(http.StatusOK, echo.Map{"status": "new password sent"})
}

// Delete handles DELETE /v1/users/:id (admin only, gated at the route).
// Dogs and reviews referencing the account keep existing with their
// owner/author reference cleared.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
