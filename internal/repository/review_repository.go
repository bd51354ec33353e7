package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Review is a user-authored note about a dog.  The slug is the external
// identifier used in URLs instead of the numeric id.  AutorID keeps the
// historical column name of this schema; it is nil when the author account
// was deleted.
type Review struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	Created      time.Time `json:"created"`
	SignOfReview bool      `json:"sign_of_review"`
	AutorID      *uint64   `json:"autor_id,omitempty"`
	DogID        uint64    `json:"dog_id"`
}

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrSlugTaken      = errors.New("slug already exists")
)

type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

const reviewColumns = "id, title, slug, content, created, sign_of_review, autor_id, dog_id"

func scanReview(row interface{ Scan(...any) error }) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.Title, &rv.Slug, &rv.Content, &rv.Created,
		&rv.SignOfReview, &rv.AutorID, &rv.DogID)
	return rv, err
}

func (r *ReviewRepo) queryList(ctx context.Context, q string, args ...any) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListActive returns reviews with the active flag set.
func (r *ReviewRepo) ListActive(ctx context.Context) ([]Review, error) {
	return r.queryList(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE sign_of_review = TRUE ORDER BY id")
}

// ListDeactivated returns reviews with the active flag cleared.
func (r *ReviewRepo) ListDeactivated(ctx context.Context) ([]Review, error) {
	return r.queryList(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE sign_of_review = FALSE ORDER BY id")
}

// ListActiveByDog returns the active reviews of one dog.
func (r *ReviewRepo) ListActiveByDog(ctx context.Context, dogID uint64) ([]Review, error) {
	return r.queryList(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE sign_of_review = TRUE AND dog_id = ? ORDER BY id", dogID)
}

// GetBySlug fetches a review by its slug.
func (r *ReviewRepo) GetBySlug(ctx context.Context, slug string) (*Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE slug = ?", slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// SlugExists reports whether any review already uses the slug.
func (r *ReviewRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM reviews WHERE slug = ? LIMIT 1", slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new review.  The created timestamp is set by the
// database once and never updated.  A duplicate slug maps to ErrSlugTaken.
func (r *ReviewRepo) Create(ctx context.Context, rv *Review) error {
	const q = `INSERT INTO reviews (title, slug, content, sign_of_review, autor_id, dog_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rv.Title, rv.Slug, rv.Content, rv.SignOfReview, rv.AutorID, rv.DogID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSlugTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)

	return r.db.QueryRowContext(ctx,
		"SELECT created FROM reviews WHERE id = ?", rv.ID).Scan(&rv.Created)
}

// Update rewrites the editable fields of a review.  Slug and created are
// immutable after creation.
func (r *ReviewRepo) Update(ctx context.Context, slug, title, content string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET title = ?, content = ? WHERE slug = ?", title, content, slug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is zero both for a missing review and for a
		// no-op update; re-check existence to keep not-found reliable.
		var exists uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM reviews WHERE slug = ?", slug).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReviewNotFound
			}
			return err
		}
	}
	return nil
}

// DeleteBySlug removes a review.
func (r *ReviewRepo) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE slug = ?", slug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ToggleBySlug flips the active flag and returns the new state.
func (r *ReviewRepo) ToggleBySlug(ctx context.Context, slug string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET sign_of_review = NOT sign_of_review WHERE slug = ?", slug)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ErrReviewNotFound
	}
	var active bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT sign_of_review FROM reviews WHERE slug = ?", slug).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}
