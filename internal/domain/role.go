// Package domain holds the closed role enumeration and the capability
// checks derived from it.  Keeping roles as a typed enum with an explicit
// parse step guarantees that an unknown role value fails closed at every
// authorization decision point instead of silently matching nothing.
package domain

import "strings"

// Role is the access level stored on a user record and carried in the JWT
// "role" claim.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ParseRole normalizes a raw role value and reports whether it names one of
// the known roles.  Any other value is rejected.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleModerator:
		return RoleModerator, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// String returns the stored form of the role.
func (r Role) String() string { return string(r) }

// CanModerate reports whether the role may see and manage records owned by
// other users (deactivated listings, review edits).
func (r Role) CanModerate() bool {
	switch r {
	case RoleAdmin, RoleModerator:
		return true
	case RoleUser:
		return false
	}
	return false
}

// CanDelete is the coarse delete capability: deletion of dogs and reviews is
// not an ownership check but a role capability held by staff.
func (r Role) CanDelete() bool {
	switch r {
	case RoleAdmin, RoleModerator:
		return true
	case RoleUser:
		return false
	}
	return false
}

// CanCreateDog reports whether the role may register a new dog.  Only plain
// users own dogs; staff roles manage but do not own.
func (r Role) CanCreateDog() bool {
	return r == RoleUser
}

// CanCreateReview reports whether the role may author a review.  Moderators
// are excluded.
func (r Role) CanCreateReview() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	case RoleModerator:
		return false
	}
	return false
}
