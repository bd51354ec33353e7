package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Dog represents a kennel animal record.  OwnerID is nil for unowned dogs
// and for dogs whose owner account was deleted.  Views only ever grows; it
// is bumped with a relative UPDATE so concurrent viewers cannot lose
// increments.
type Dog struct {
	ID         uint64     `json:"id"`
	Name       string     `json:"name"`
	CategoryID uint64     `json:"category_id"`
	Photo      *string    `json:"photo,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	IsActive   bool       `json:"is_active"`
	OwnerID    *uint64    `json:"owner_id,omitempty"`
	Views      uint64     `json:"views"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ErrDogNotFound is returned when a dog cannot be found in the DB.
var ErrDogNotFound = errors.New("dog not found")

// DogRepo encapsulates all database queries related to dogs and their
// grouped parent records.
type DogRepo struct {
	db *sql.DB
}

func NewDogRepo(db *sql.DB) *DogRepo {
	return &DogRepo{db: db}
}

const dogColumns = "id, name, category_id, photo, birth_date, is_active, owner_id, views, created_at, updated_at"

func scanDog(row interface{ Scan(...any) error }) (Dog, error) {
	var d Dog
	err := row.Scan(&d.ID, &d.Name, &d.CategoryID, &d.Photo, &d.BirthDate,
		&d.IsActive, &d.OwnerID, &d.Views, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *DogRepo) queryList(ctx context.Context, q string, args ...any) ([]Dog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dog
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListActive returns dogs visible to any authenticated viewer.
func (r *DogRepo) ListActive(ctx context.Context) ([]Dog, error) {
	return r.queryList(ctx,
		"SELECT "+dogColumns+" FROM dogs WHERE is_active = TRUE ORDER BY id")
}

// Search returns active dogs whose name contains the query,
// case-insensitively.
func (r *DogRepo) Search(ctx context.Context, query string) ([]Dog, error) {
	return r.queryList(ctx,
		`SELECT `+dogColumns+` FROM dogs
		 WHERE is_active = TRUE AND LOWER(name) LIKE LOWER(CONCAT('%', ?, '%'))
		 ORDER BY id`, query)
}

// ListByCategory returns every dog of one breed, active or not.
func (r *DogRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]Dog, error) {
	return r.queryList(ctx,
		"SELECT "+dogColumns+" FROM dogs WHERE category_id = ? ORDER BY id", categoryID)
}

// ListDeactivated returns every inactive dog.  Callers gate this on the
// moderation capability.
func (r *DogRepo) ListDeactivated(ctx context.Context) ([]Dog, error) {
	return r.queryList(ctx,
		"SELECT "+dogColumns+" FROM dogs WHERE is_active = FALSE ORDER BY id")
}

// ListDeactivatedByOwner returns the inactive dogs owned by one user.
func (r *DogRepo) ListDeactivatedByOwner(ctx context.Context, ownerID uint64) ([]Dog, error) {
	return r.queryList(ctx,
		"SELECT "+dogColumns+" FROM dogs WHERE is_active = FALSE AND owner_id = ? ORDER BY id", ownerID)
}

// GetByID fetches a dog by id.  It returns ErrDogNotFound if no row is
// found.
func (r *DogRepo) GetByID(ctx context.Context, id uint64) (*Dog, error) {
	d, err := scanDog(r.db.QueryRowContext(ctx,
		"SELECT "+dogColumns+" FROM dogs WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDogNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a new dog.  On success the ID field is populated and the
// timestamp fields are read back so callers receive a fully populated
// record.
func (r *DogRepo) Create(ctx context.Context, d *Dog) error {
	const q = `INSERT INTO dogs (name, category_id, photo, birth_date, is_active, owner_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		d.Name, d.CategoryID, d.Photo, d.BirthDate, d.IsActive, d.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)

	const qSelect = "SELECT views, created_at, updated_at FROM dogs WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, d.ID).Scan(&d.Views, &d.CreatedAt, &d.UpdatedAt)
}

// ParentEdit is one entry of the grouped parent editor submitted together
// with a dog update.  ID zero adds a record; Remove deletes the identified
// record; otherwise the record is rewritten.  Every statement is scoped to
// the dog being updated so an edit can never touch another dog's pedigree.
type ParentEdit struct {
	ID         uint64     `json:"id"`
	Name       string     `json:"name"`
	CategoryID uint64     `json:"category_id"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Remove     bool       `json:"remove"`
}

// UpdateWithParents rewrites the dog's own fields and applies the grouped
// parent edits in a single transaction.  Either everything is persisted or
// nothing is; callers validate the edits before calling.
func (r *DogRepo) UpdateWithParents(ctx context.Context, d *Dog, edits []ParentEdit) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
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

	const qDog = `UPDATE dogs
	              SET name = ?, category_id = ?, photo = ?, birth_date = ?, updated_at = CURRENT_TIMESTAMP
	              WHERE id = ?`
	res, err := tx.ExecContext(ctx, qDog, d.Name, d.CategoryID, d.Photo, d.BirthDate, d.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is zero both for a missing dog and for a no-op
		// update; re-check existence to keep not-found reliable.
		var exists uint64
		if err = tx.QueryRowContext(ctx, "SELECT id FROM dogs WHERE id = ?", d.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDogNotFound
			}
			return err
		}
	}

	for _, e := range edits {
		switch {
		case e.Remove && e.ID != 0:
			if _, err = tx.ExecContext(ctx,
				"DELETE FROM parents WHERE id = ? AND dog_id = ?", e.ID, d.ID); err != nil {
				return err
			}
		case e.ID == 0:
			if _, err = tx.ExecContext(ctx,
				"INSERT INTO parents (dog_id, name, category_id, birth_date) VALUES (?, ?, ?, ?)",
				d.ID, e.Name, e.CategoryID, e.BirthDate); err != nil {
				return err
			}
		default:
			if _, err = tx.ExecContext(ctx,
				"UPDATE parents SET name = ?, category_id = ?, birth_date = ? WHERE id = ? AND dog_id = ?",
				e.Name, e.CategoryID, e.BirthDate, e.ID, d.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes a dog together with its reviews and parent records inside
// a transaction.
func (r *DogRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
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

	if _, err = tx.ExecContext(ctx, "DELETE FROM reviews WHERE dog_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM parents WHERE dog_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM dogs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDogNotFound
	}
	return nil
}

// ToggleActive flips the is_active flag unconditionally and returns the new
// state.
func (r *DogRepo) ToggleActive(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE dogs SET is_active = NOT is_active, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ErrDogNotFound
	}
	var active bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT is_active FROM dogs WHERE id = ?", id).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

// IncrementViews bumps the view counter by exactly one and returns the new
// value.  The relative UPDATE makes the increment atomic at the storage
// layer.
func (r *DogRepo) IncrementViews(ctx context.Context, id uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE dogs SET views = views + 1 WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrDogNotFound
	}
	var views uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT views FROM dogs WHERE id = ?", id).Scan(&views); err != nil {
		return 0, err
	}
	return views, nil
}
