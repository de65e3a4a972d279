package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

// BoardRepo persists curriculum boards, the root of the content hierarchy.
type BoardRepo struct{ DB *sql.DB }

func NewBoardRepo(db *sql.DB) *BoardRepo { return &BoardRepo{DB: db} }

const boardCols = "id,name,description,created_at,updated_at"

// ListAll returns every board ordered by name.
func (r *BoardRepo) ListAll(ctx context.Context) ([]model.Board, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+boardCols+" FROM boards ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Board{}
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID fetches a single board.
func (r *BoardRepo) GetByID(ctx context.Context, id uint64) (model.Board, error) {
	var b model.Board
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+boardCols+" FROM boards WHERE id=? LIMIT 1", id).
		Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Board{}, ErrNotFound
	}
	return b, err
}

// Create inserts a board and fills in its generated ID.  Board names are
// unique; duplicates yield ErrNameExists.
func (r *BoardRepo) Create(ctx context.Context, b *model.Board) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO boards (name, description) VALUES (?,?)", b.Name, b.Description)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// Update rewrites name and description of an existing board.
func (r *BoardRepo) Update(ctx context.Context, b *model.Board) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE boards SET name=?, description=? WHERE id=?", b.Name, b.Description, b.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	return requireAffected(res)
}

// Delete removes a board by id.
func (r *BoardRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM boards WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// requireAffected converts a zero-row update or delete into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
