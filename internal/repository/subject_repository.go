package repository

import (
	"context"
	"database/sql"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

// SubjectRepo persists subjects, which belong to a grade and contain
// ordered chapters.
type SubjectRepo struct{ DB *sql.DB }

func NewSubjectRepo(db *sql.DB) *SubjectRepo { return &SubjectRepo{DB: db} }

const subjectCols = "id,grade_id,name,description,created_at,updated_at"

// List returns subjects, optionally filtered by grade.  gradeID of zero
// means no filter.
func (r *SubjectRepo) List(ctx context.Context, gradeID uint64) ([]model.Subject, error) {
	query := "SELECT " + subjectCols + " FROM subjects ORDER BY name"
	args := []any{}
	if gradeID != 0 {
		query = "SELECT " + subjectCols + " FROM subjects WHERE grade_id=? ORDER BY name"
		args = append(args, gradeID)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.GradeID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches a single subject.
func (r *SubjectRepo) GetByID(ctx context.Context, id uint64) (model.Subject, error) {
	var s model.Subject
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+subjectCols+" FROM subjects WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.GradeID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Subject{}, ErrNotFound
	}
	return s, err
}

// Create inserts a subject and fills in its generated ID.
func (r *SubjectRepo) Create(ctx context.Context, s *model.Subject) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO subjects (grade_id, name, description) VALUES (?,?,?)",
		s.GradeID, s.Name, s.Description)
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
	s.ID = uint64(id)
	return nil
}

// Update rewrites the mutable fields of an existing subject.
func (r *SubjectRepo) Update(ctx context.Context, s *model.Subject) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE subjects SET grade_id=?, name=?, description=? WHERE id=?",
		s.GradeID, s.Name, s.Description, s.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

// Delete removes a subject by id.
func (r *SubjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM subjects WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
