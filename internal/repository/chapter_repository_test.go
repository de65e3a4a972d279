package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

func newChapterRepo(t *testing.T) (*ChapterRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewChapterRepo(db), mock
}

func chapterRow(id, subjectID uint64, number uint32, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "subject_id", "number", "title", "description", "video_url", "notes", "created_at", "updated_at",
	}).AddRow(id, subjectID, number, title, nil, nil, nil, now, now)
}

func TestChapterGetByIDLoadsQuestions(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectQuery("SELECT .+ FROM chapters WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(chapterRow(7, 2, 3, "Linear Equations"))
	mock.ExpectQuery("SELECT .+ FROM questions WHERE chapter_id=").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "chapter_id", "prompt", "options", "answer", "explanation"}).
			AddRow(1, 7, "2+2?", []byte(`["3","4","5"]`), 1, nil).
			AddRow(2, 7, "3+3?", []byte(`["5","6"]`), 1, "because"))

	ch, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Linear Equations", ch.Title)
	require.Len(t, ch.Questions, 2)
	assert.Equal(t, []string{"3", "4", "5"}, ch.Questions[0].Options)
	assert.Equal(t, uint8(1), ch.Questions[0].Answer)
	require.NotNil(t, ch.Questions[1].Explanation)
	assert.Equal(t, "because", *ch.Questions[1].Explanation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterGetByIDNotFound(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectQuery("SELECT .+ FROM chapters WHERE id=").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "subject_id", "number", "title", "description", "video_url", "notes", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterFindWalksHierarchy(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectQuery("SELECT c.id").
		WithArgs("cbse", "class 6", "mathematics", uint32(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT .+ FROM chapters WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(chapterRow(7, 2, 3, "Linear Equations"))
	mock.ExpectQuery("SELECT .+ FROM questions WHERE chapter_id=").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "chapter_id", "prompt", "options", "answer", "explanation"}))

	ch, err := repo.Find(context.Background(), " CBSE ", "Class 6", "Mathematics", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), ch.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterFindNoMatch(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectQuery("SELECT c.id").
		WithArgs("cbse", "class 6", "mathematics", uint32(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Find(context.Background(), "CBSE", "Class 6", "Mathematics", 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddQuestionMarshalsOptions(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectExec("INSERT INTO questions").
		WithArgs(uint64(7), "2+2?", []byte(`["3","4"]`), uint8(1), nil).
		WillReturnResult(sqlmock.NewResult(5, 1))

	q := model.Question{ChapterID: 7, Prompt: "2+2?", Options: []string{"3", "4"}, Answer: 1}
	require.NoError(t, repo.AddQuestion(context.Background(), &q))
	assert.Equal(t, uint64(5), q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuestionScopedToChapter(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectExec("UPDATE questions SET").
		WithArgs("2+3?", []byte(`["4","5"]`), uint8(1), nil, uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	q := model.Question{ID: 5, ChapterID: 7, Prompt: "2+3?", Options: []string{"4", "5"}, Answer: 1}
	err := repo.UpdateQuestion(context.Background(), &q)
	assert.ErrorIs(t, err, ErrNotFound, "zero affected rows means the id/chapter pair did not match")
}

func TestDeleteChapterNotFound(t *testing.T) {
	repo, mock := newChapterRepo(t)

	mock.ExpectExec("DELETE FROM chapters WHERE id=").
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrNotFound)
}
