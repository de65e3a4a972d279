package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

// ChapterRepo persists chapters and their question lists.  Question options
// are stored as a JSON array column; the repository owns the round trip so
// handlers only ever see []string.
type ChapterRepo struct{ DB *sql.DB }

func NewChapterRepo(db *sql.DB) *ChapterRepo { return &ChapterRepo{DB: db} }

const chapterCols = "id,subject_id,number,title,description,video_url,notes,created_at,updated_at"

// ListBySubject returns the chapters of one subject ordered by their
// ordinal number.  Question lists are not loaded here.
func (r *ChapterRepo) ListBySubject(ctx context.Context, subjectID uint64) ([]model.Chapter, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+chapterCols+" FROM chapters WHERE subject_id=? ORDER BY number", subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Chapter{}
	for rows.Next() {
		var c model.Chapter
		if err := scanChapter(rows.Scan, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a chapter together with its full question list.
func (r *ChapterRepo) GetByID(ctx context.Context, id uint64) (model.Chapter, error) {
	var c model.Chapter
	err := scanChapter(r.DB.QueryRowContext(ctx,
		"SELECT "+chapterCols+" FROM chapters WHERE id=? LIMIT 1", id).Scan, &c)
	if err == sql.ErrNoRows {
		return model.Chapter{}, ErrNotFound
	}
	if err != nil {
		return model.Chapter{}, err
	}
	qs, err := r.listQuestions(ctx, id)
	if err != nil {
		return model.Chapter{}, err
	}
	c.Questions = qs
	return c, nil
}

// Find resolves a chapter by walking the hierarchy with human-facing keys:
// board name, grade name, subject name and chapter number.  Matching is
// case-insensitive on names.
func (r *ChapterRepo) Find(ctx context.Context, board, grade, subject string, number uint32) (model.Chapter, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx, `
		SELECT c.id
		FROM chapters c
		JOIN subjects s ON s.id = c.subject_id
		JOIN grades g ON g.id = s.grade_id
		JOIN boards b ON b.id = g.board_id
		WHERE LOWER(b.name)=? AND LOWER(g.name)=? AND LOWER(s.name)=? AND c.number=?
		LIMIT 1`,
		strings.ToLower(strings.TrimSpace(board)),
		strings.ToLower(strings.TrimSpace(grade)),
		strings.ToLower(strings.TrimSpace(subject)),
		number).Scan(&id)
	if err == sql.ErrNoRows {
		return model.Chapter{}, ErrNotFound
	}
	if err != nil {
		return model.Chapter{}, err
	}
	return r.GetByID(ctx, id)
}

// Create inserts a chapter and fills in its generated ID.
func (r *ChapterRepo) Create(ctx context.Context, c *model.Chapter) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO chapters (subject_id, number, title, description, video_url, notes) VALUES (?,?,?,?,?,?)",
		c.SubjectID, c.Number, c.Title, c.Description, c.VideoURL, c.Notes)
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
	c.ID = uint64(id)
	return nil
}

// Update rewrites the mutable fields of an existing chapter.
func (r *ChapterRepo) Update(ctx context.Context, c *model.Chapter) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE chapters SET subject_id=?, number=?, title=?, description=?, video_url=?, notes=? WHERE id=?",
		c.SubjectID, c.Number, c.Title, c.Description, c.VideoURL, c.Notes, c.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

// Delete removes a chapter and, via cascade, its questions.
func (r *ChapterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM chapters WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddQuestion appends a question to a chapter and fills in its ID.
func (r *ChapterRepo) AddQuestion(ctx context.Context, q *model.Question) error {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO questions (chapter_id, prompt, options, answer, explanation) VALUES (?,?,?,?,?)",
		q.ChapterID, q.Prompt, opts, q.Answer, q.Explanation)
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
	q.ID = uint64(id)
	return nil
}

// UpdateQuestion rewrites a question.  The chapter id in the WHERE clause
// keeps the operation scoped to the chapter named in the URL.
func (r *ChapterRepo) UpdateQuestion(ctx context.Context, q *model.Question) error {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE questions SET prompt=?, options=?, answer=?, explanation=? WHERE id=? AND chapter_id=?",
		q.Prompt, opts, q.Answer, q.Explanation, q.ID, q.ChapterID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteQuestion removes one question from a chapter.
func (r *ChapterRepo) DeleteQuestion(ctx context.Context, chapterID, questionID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM questions WHERE id=? AND chapter_id=?", questionID, chapterID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// listQuestions loads all questions of a chapter in insertion order.
func (r *ChapterRepo) listQuestions(ctx context.Context, chapterID uint64) ([]model.Question, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,chapter_id,prompt,options,answer,explanation FROM questions WHERE chapter_id=? ORDER BY id",
		chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Question{}
	for rows.Next() {
		var q model.Question
		var opts []byte
		if err := rows.Scan(&q.ID, &q.ChapterID, &q.Prompt, &opts, &q.Answer, &q.Explanation); err != nil {
			return nil, err
		}
		if len(opts) > 0 {
			if err := json.Unmarshal(opts, &q.Options); err != nil {
				return nil, err
			}
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// scanChapter scans the chapterCols column set into c.
func scanChapter(scan func(...any) error, c *model.Chapter) error {
	return scan(&c.ID, &c.SubjectID, &c.Number, &c.Title, &c.Description,
		&c.VideoURL, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
}
