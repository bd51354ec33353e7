package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/kennelapp/dog-kennel/internal/domain"
	"github.com/kennelapp/dog-kennel/internal/utils"
)

// User mirrors the 'users' table.  Email doubles as the login identifier;
// there is no separate username.  Optional contact fields are pointers so a
// NULL column round-trips as nil.
type User struct {
	ID           uint64      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         domain.Role `json:"role"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Phone        *string     `json:"phone,omitempty"`
	Telegram     *string     `json:"telegram,omitempty"`
	Avatar       *string     `json:"avatar,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = "id,email,password_hash,role,first_name,last_name,phone,telegram,avatar,is_active,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.Phone, &u.Telegram, &u.Avatar, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.  New accounts get the plain
// user role and the "Anonymous" name defaults.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, first_name, last_name) VALUES (?,?,?,?,?)",
		email, hash, domain.RoleUser, "Anonymous", "Anonymous")
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// ListActive returns all active user accounts ordered by id.
func (r *UserRepo) ListActive(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_active=TRUE ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile updates the self-editable profile fields.  Email and role
// are not touched here.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName string, phone, telegram, avatar *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users
		 SET first_name=?, last_name=?, phone=?, telegram=?, avatar=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		firstName, lastName, phone, telegram, avatar, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is zero both for a missing user and for a no-op
		// update; re-check existence to keep not-found reliable.
		var exists uint64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM users WHERE id = ?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
	return err
}

// Delete removes a user account.  Dogs and reviews the user is referenced
// by survive: their owner/autor columns are set to NULL rather than
// cascading.  Refresh tokens are removed with the account.  Everything runs
// in one transaction.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "UPDATE dogs SET owner_id=NULL WHERE owner_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "UPDATE reviews SET autor_id=NULL WHERE autor_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
