package handler

import (
	"errors"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// testTime is a fixed timestamp shared by handler tests.
var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// errDuplicate mimics the MySQL duplicate key error text.
func errDuplicate() error { return errors.New("Error 1062: Duplicate entry") }

func userRow(id uint64, email, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "first_name", "last_name",
		"phone", "telegram", "avatar", "is_active", "created_at", "updated_at",
	}).AddRow(id, email, "$2a$04$hash", role, "Anonymous", "Anonymous",
		nil, nil, nil, true, testTime, testTime)
}
