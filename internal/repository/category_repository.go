// Package repository contains data access logic separated from HTTP
// handlers.  Each repository is a thin struct over *sql.DB with
// context-aware queries and sentinel errors; multi-table writes run in
// explicit transactions.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Category represents a breed classification.  Dogs and parent records
// reference it; deleting a category hard-deletes its dependents.
type Category struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrCategoryNotFound is returned when a category cannot be found.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates all database queries related to breed
// categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// List returns every category ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	const q = "SELECT id, name, description FROM categories ORDER BY id"
	return r.queryList(ctx, q)
}

// Search returns categories whose name contains the query, matched
// case-insensitively.
func (r *CategoryRepo) Search(ctx context.Context, query string) ([]Category, error) {
	const q = `SELECT id, name, description FROM categories
	           WHERE LOWER(name) LIKE LOWER(CONCAT('%', ?, '%')) ORDER BY id`
	return r.queryList(ctx, q, query)
}

func (r *CategoryRepo) queryList(ctx context.Context, q string, args ...any) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a category by its ID.  It returns ErrCategoryNotFound if
// no row is found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*Category, error) {
	const q = "SELECT id, name, description FROM categories WHERE id = ?"
	var c Category
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category.  On success the ID field is populated
// with the auto-generated value.
func (r *CategoryRepo) Create(ctx context.Context, c *Category) error {
	const q = "INSERT INTO categories (name, description) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update replaces the name and description of a category.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name, description string) error {
	const q = "UPDATE categories SET name = ?, description = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, name, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is zero both for a missing category and for a
		// no-op update; re-check existence to keep not-found reliable.
		var exists uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM categories WHERE id = ?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a category and every dependent record: reviews and parent
// records of dogs in the category, parent records that reference the
// category as a breed, and finally the dogs themselves.  The deletion
// occurs within a transaction to maintain integrity.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) (err error) {
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

	// Reviews cascade with their dog.
	if _, err = tx.ExecContext(ctx,
		`DELETE rv FROM reviews rv
		 JOIN dogs d ON d.id = rv.dog_id
		 WHERE d.category_id = ?`, id); err != nil {
		return err
	}
	// Parent records cascade with their dog.
	if _, err = tx.ExecContext(ctx,
		`DELETE p FROM parents p
		 JOIN dogs d ON d.id = p.dog_id
		 WHERE d.category_id = ?`, id); err != nil {
		return err
	}
	// Parent records also cascade when their own breed reference goes away.
	if _, err = tx.ExecContext(ctx, "DELETE FROM parents WHERE category_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM dogs WHERE category_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
