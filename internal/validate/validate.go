// Package validate implements the field validation rules shared by the
// account and catalog handlers.  Failures are reported as FieldErrors so
// handlers can return every failing field with its message in one response.
package validate

import (
	"errors"
	"regexp"
	"time"
)

// Validation failure kinds.  Handlers compare against these to decide which
// field a failure belongs to.
var (
	ErrPasswordFormat   = errors.New("must contain A-Z a-z letters and 0-9 numbers")
	ErrPasswordLength   = errors.New("password length must be between 8 and 16 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrBirthDateTooOld  = errors.New("birth date must be within the last 100 years")
)

// FieldErrors maps a field name to its validation message.  The zero value
// is usable; Add on a nil map allocates.
type FieldErrors map[string]string

// Add records a message for a field, keeping the first message when a field
// fails more than once.
func (fe *FieldErrors) Add(field, msg string) {
	if *fe == nil {
		*fe = make(FieldErrors)
	}
	if _, ok := (*fe)[field]; !ok {
		(*fe)[field] = msg
	}
}

// Empty reports whether no field has failed.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

var passwordPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Password checks the account password rules: ASCII letters and digits
// only, then length between 8 and 16 inclusive.  The format rule is
// evaluated first; when it fails the length rule is not reported, matching
// the long-standing behavior of this application.
func Password(p string) error {
	if !passwordPattern.MatchString(p) {
		return ErrPasswordFormat
	}
	if len(p) < 8 || len(p) > 16 {
		return ErrPasswordLength
	}
	return nil
}

// PasswordPair validates the password and confirms the repeated entry
// matches it.  The mismatch check runs even when the password itself is
// invalid so both failures surface in one round trip.
func PasswordPair(password, confirm string) FieldErrors {
	var fe FieldErrors
	if err := Password(password); err != nil {
		fe.Add("password", err.Error())
	}
	if password != confirm {
		fe.Add("password_confirm", ErrPasswordMismatch.Error())
	}
	return fe
}

// BirthDate checks that a dog (or parent) birth date lies within the last
// hundred years.  A nil birth date is always valid; the field is optional
// and the rule is skipped entirely when it is absent.
func BirthDate(b *time.Time, now time.Time) error {
	if b == nil {
		return nil
	}
	if now.Year()-b.Year() > 100 {
		return ErrBirthDateTooOld
	}
	return nil
}
