package repository

import (
	"context"
	"database/sql"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

// GradeRepo persists grades, which group subjects under a board.
type GradeRepo struct{ DB *sql.DB }

func NewGradeRepo(db *sql.DB) *GradeRepo { return &GradeRepo{DB: db} }

const gradeCols = "id,board_id,name,created_at,updated_at"

// List returns grades, optionally filtered by board.  boardID of zero means
// no filter.
func (r *GradeRepo) List(ctx context.Context, boardID uint64) ([]model.Grade, error) {
	query := "SELECT " + gradeCols + " FROM grades ORDER BY name"
	args := []any{}
	if boardID != 0 {
		query = "SELECT " + gradeCols + " FROM grades WHERE board_id=? ORDER BY name"
		args = append(args, boardID)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Grade{}
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.ID, &g.BoardID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetByID fetches a single grade.
func (r *GradeRepo) GetByID(ctx context.Context, id uint64) (model.Grade, error) {
	var g model.Grade
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+gradeCols+" FROM grades WHERE id=? LIMIT 1", id).
		Scan(&g.ID, &g.BoardID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Grade{}, ErrNotFound
	}
	return g, err
}

// Create inserts a grade and fills in its generated ID.  The board must
// exist; a foreign key violation surfaces as ErrNotFound so handlers can
// report the missing parent.
func (r *GradeRepo) Create(ctx context.Context, g *model.Grade) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO grades (board_id, name) VALUES (?,?)", g.BoardID, g.Name)
	if err != nil {
		if isFKViolation(err) {
			return ErrNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Update rewrites name and board of an existing grade.
func (r *GradeRepo) Update(ctx context.Context, g *model.Grade) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE grades SET board_id=?, name=? WHERE id=?", g.BoardID, g.Name, g.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

// Delete removes a grade by id.
func (r *GradeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM grades WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
