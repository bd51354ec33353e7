package repository

import (
	"context"
	"database/sql"
	"time"
)

// Parent is one pedigree ancestor record attached to a dog.  Parents are
// written only through the dog update's grouped editor
// (DogRepo.UpdateWithParents); this repository covers the read side.
type Parent struct {
	ID         uint64     `json:"id"`
	DogID      uint64     `json:"dog_id"`
	Name       string     `json:"name"`
	CategoryID uint64     `json:"category_id"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
}

type ParentRepo struct {
	db *sql.DB
}

func NewParentRepo(db *sql.DB) *ParentRepo {
	return &ParentRepo{db: db}
}

// ListByDog returns the pedigree of one dog ordered by id.
func (r *ParentRepo) ListByDog(ctx context.Context, dogID uint64) ([]Parent, error) {
	const q = "SELECT id, dog_id, name, category_id, birth_date FROM parents WHERE dog_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Parent
	for rows.Next() {
		var p Parent
		if err := rows.Scan(&p.ID, &p.DogID, &p.Name, &p.CategoryID, &p.BirthDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
