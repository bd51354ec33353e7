package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennelapp/dog-kennel/internal/config"
	"github.com/kennelapp/dog-kennel/internal/repository"
	"github.com/kennelapp/dog-kennel/internal/utils"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock, *mailRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &mailRecorder{}
	h := NewUserHandler(
		config.Config{SMTPUser: "kennel@example.com", BcryptCost: 4},
		repository.NewUserRepo(db),
		rec,
	)
	return h, mock, rec
}

func hashedUserRow(t *testing.T, id uint64, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "first_name", "last_name",
		"phone", "telegram", "avatar", "is_active", "created_at", "updated_at",
	}).AddRow(id, email, hash, "user", "Anonymous", "Anonymous",
		nil, nil, nil, true, testTime, testTime)
}

func TestChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		h, mock, _ := newUserHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
			WithArgs(uint64(5)).
			WillReturnRows(hashedUserRow(t, 5, "a@b.com", "oldpass99"))

		body := `{"current_password":"nope","new_password":"newpass99","new_password_confirm":"newpass99"}`
		c, w := newAuthedContext(t, http.MethodPost, "/v1/profile/password", body, 5, "user")

		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "wrong password", resp.Errors["current_password"])
	})

	t.Run("new password fails policy", func(t *testing.T) {
		h, mock, _ := newUserHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
			WithArgs(uint64(5)).
			WillReturnRows(hashedUserRow(t, 5, "a@b.com", "oldpass99"))

		body := `{"current_password":"oldpass99","new_password":"short","new_password_confirm":"short"}`
		c, w := newAuthedContext(t, http.MethodPost, "/v1/profile/password", body, 5, "user")

		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Errors, "password")
	})

	t.Run("stores the new hash", func(t *testing.T) {
		h, mock, _ := newUserHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
			WithArgs(uint64(5)).
			WillReturnRows(hashedUserRow(t, 5, "a@b.com", "oldpass99"))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash=?")).
			WithArgs(sqlmock.AnyArg(), uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		body := `{"current_password":"oldpass99","new_password":"newpass99","new_password_confirm":"newpass99"}`
		c, w := newAuthedContext(t, http.MethodPost, "/v1/profile/password", body, 5, "user")

		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGenerateNewPassword(t *testing.T) {
	h, mock, rec := newUserHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(hashedUserRow(t, 5, "a@b.com", "oldpass99"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash=?")).
		WithArgs(sqlmock.AnyArg(), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := newAuthedContext(t, http.MethodPost, "/v1/profile/genpassword", "", 5, "user")

	require.NoError(t, h.GenerateNewPassword(c))
	assert.Equal(t, http.StatusOK, w.Code)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, []string{"a@b.com"}, ev.To)
	assert.Contains(t, ev.Body, "Your new password: ")
	assert.Len(t, ev.Body, len("Your new password: ")+utils.GeneratedPasswordLength)
}

func TestUpdateProfile(t *testing.T) {
	h, mock, _ := newUserHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs("Anonymous", "Anonymous", nil, nil, nil, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(hashedUserRow(t, 5, "a@b.com", "oldpass99"))

	// Blank names fall back to the Anonymous placeholder.
	body := `{"first_name":"  ","last_name":""}`
	c, w := newAuthedContext(t, http.MethodPut, "/v1/profile", body, 5, "user")

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
