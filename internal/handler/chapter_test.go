package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/middleware"
	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/utils"
)

// questionsFor builds n questions belonging to a chapter.
func questionsFor(chapterID uint64, n int) []model.Question {
	qs := make([]model.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, model.Question{
			ID:        uint64(i),
			ChapterID: chapterID,
			Prompt:    fmt.Sprintf("question %d", i),
			Options:   []string{"a", "b", "c", "d"},
			Answer:    1,
		})
	}
	return qs
}

func newChapterEnv() (*echo.Echo, *memUserStore, *memChapterStore, config.Config) {
	cfg := testConfig()
	users := newMemUserStore()
	chapters := &memChapterStore{chapters: map[uint64]model.Chapter{
		10: {
			ID:        10,
			SubjectID: 1,
			Number:    3,
			Title:     "Linear Equations",
			Questions: questionsFor(10, 10),
		},
		11: {
			ID:        11,
			SubjectID: 1,
			Number:    4,
			Title:     "Quadratic Equations",
			Questions: questionsFor(11, 2),
		},
	}}
	subjects := &memSubjectLookup{subjects: map[uint64]model.Subject{
		1: {ID: 1, GradeID: 1, Name: "Mathematics"},
	}}
	h := NewChapterHandler(cfg, chapters, subjects, users, nil)

	e := newTestEcho()
	opt := middleware.OptionalJWT(cfg.JWTSecret)
	adm := []echo.MiddlewareFunc{middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin)}
	e.GET("/api/subjects/:id/chapters", h.ListBySubject)
	e.GET("/api/chapters/find", h.Find, opt)
	e.GET("/api/chapters/:id", h.Get, opt)
	e.POST("/api/subjects/:id/chapters", h.Create, adm...)
	e.PUT("/api/chapters/:id", h.Update, adm...)
	e.DELETE("/api/chapters/:id", h.Delete, adm...)
	e.POST("/api/chapters/:id/questions", h.AddQuestion, adm...)
	e.PUT("/api/chapters/:id/questions/:qid", h.UpdateQuestion, adm...)
	e.DELETE("/api/chapters/:id/questions/:qid", h.DeleteQuestion, adm...)
	return e, users, chapters, cfg
}

// seedUser adds a user directly to the store and returns a valid access
// token for them.
func seedUser(t *testing.T, users *memUserStore, cfg config.Config, role string) string {
	t.Helper()
	u := model.User{
		Name:         "Seeded",
		Email:        sql.NullString{String: fmt.Sprintf("u%d@example.com", len(users.users)+1), Valid: true},
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, users.Create(context.Background(), &u))
	tok, err := utils.NewAccessToken(cfg.JWTSecret, u.ID, role, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func TestChapterGetAnonymousIsRestricted(t *testing.T) {
	e, _, _, cfg := newChapterEnv()

	rec := doJSON(e, http.MethodGet, "/api/chapters/10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var restricted bool
	require.NoError(t, json.Unmarshal(body["restricted"], &restricted))
	assert.True(t, restricted)

	var qs []model.Question
	require.NoError(t, json.Unmarshal(body["questions"], &qs))
	assert.Len(t, qs, cfg.ChapterPreviewLimit)
}

func TestChapterGetShortChapterStillFlagged(t *testing.T) {
	e, _, _, _ := newChapterEnv()

	rec := doJSON(e, http.MethodGet, "/api/chapters/11", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var restricted bool
	require.NoError(t, json.Unmarshal(body["restricted"], &restricted))
	assert.True(t, restricted, "partial views are flagged even when nothing was cut")

	var qs []model.Question
	require.NoError(t, json.Unmarshal(body["questions"], &qs))
	assert.Len(t, qs, 2)
}

func TestChapterGetAuthenticatedSeesEverything(t *testing.T) {
	e, users, _, cfg := newChapterEnv()
	token := seedUser(t, users, cfg, model.RoleUser)

	rec := doJSON(e, http.MethodGet, "/api/chapters/10", "", bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, has := body["restricted"]
	assert.False(t, has, "full view carries no restricted flag")

	var qs []model.Question
	require.NoError(t, json.Unmarshal(body["questions"], &qs))
	assert.Len(t, qs, 10)
}

func TestChapterGetTokenForMissingUserIsRestricted(t *testing.T) {
	e, _, _, cfg := newChapterEnv()

	// Signature-valid token whose subject was never created (or has since
	// been deleted): treated as anonymous.
	tok, err := utils.NewAccessToken(cfg.JWTSecret, 404, model.RoleUser, time.Hour)
	require.NoError(t, err)

	rec := doJSON(e, http.MethodGet, "/api/chapters/10", "", bearer(tok.Token))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	var restricted bool
	require.NoError(t, json.Unmarshal(body["restricted"], &restricted))
	assert.True(t, restricted)
}

func TestChapterGetAdminTokenSeesEverything(t *testing.T) {
	e, _, _, cfg := newChapterEnv()

	// Admin identities live in their own table, so the role claim alone
	// grants the full view.
	tok, err := utils.NewAccessToken(cfg.JWTSecret, 7, model.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := doJSON(e, http.MethodGet, "/api/chapters/10", "", bearer(tok.Token))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, has := body["restricted"]
	assert.False(t, has)
}

func TestChapterGetNotFound(t *testing.T) {
	e, _, _, _ := newChapterEnv()
	rec := doJSON(e, http.MethodGet, "/api/chapters/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChapterFind(t *testing.T) {
	e, _, _, _ := newChapterEnv()

	t.Run("resolves and projects", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/chapters/find?board=CBSE&grade=Class%206&subject=Mathematics&chapter=3", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		var restricted bool
		require.NoError(t, json.Unmarshal(body["restricted"], &restricted))
		assert.True(t, restricted)
	})
	t.Run("missing params", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/chapters/find?board=CBSE&grade=Class%206", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("bad chapter number", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/chapters/find?board=CBSE&grade=Class%206&subject=Mathematics&chapter=zero", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("no match", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/chapters/find?board=CBSE&grade=Class%206&subject=Mathematics&chapter=42", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChapterMutationsRequireAdmin(t *testing.T) {
	e, users, _, cfg := newChapterEnv()
	userTok := seedUser(t, users, cfg, model.RoleUser)

	body := `{"title":"New","number":9}`
	t.Run("anonymous", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/subjects/1/chapters", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("plain user", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/subjects/1/chapters", body, bearer(userTok))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestChapterCreate(t *testing.T) {
	e, _, store, cfg := newChapterEnv()
	adminTok, err := utils.NewAccessToken(cfg.JWTSecret, 1, model.RoleAdmin, time.Hour)
	require.NoError(t, err)

	t.Run("created under existing subject", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/subjects/1/chapters",
			`{"title":"Polynomials","number":5}`, bearer(adminTok.Token))
		require.Equal(t, http.StatusCreated, rec.Code)

		var ch model.Chapter
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ch))
		assert.Equal(t, uint64(1), ch.SubjectID)
		_, ok := store.chapters[ch.ID]
		assert.True(t, ok)
	})
	t.Run("unknown subject", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/subjects/999/chapters",
			`{"title":"Orphan","number":1}`, bearer(adminTok.Token))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("missing title", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/subjects/1/chapters",
			`{"number":5}`, bearer(adminTok.Token))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuestionLifecycle(t *testing.T) {
	e, _, store, cfg := newChapterEnv()
	adminTok, err := utils.NewAccessToken(cfg.JWTSecret, 1, model.RoleAdmin, time.Hour)
	require.NoError(t, err)
	auth := bearer(adminTok.Token)

	rec := doJSON(e, http.MethodPost, "/api/chapters/11/questions",
		`{"prompt":"2+2?","options":["3","4"],"answer":1}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var q model.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Len(t, store.chapters[11].Questions, 3)

	rec = doJSON(e, http.MethodPost, "/api/chapters/11/questions",
		`{"prompt":"2+2?","options":["3","4"],"answer":5}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "answer index out of range")

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/chapters/11/questions/%d", q.ID),
		`{"prompt":"2+3?","options":["4","5"],"answer":1}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/chapters/11/questions/%d", q.ID), "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.chapters[11].Questions, 2)

	rec = doJSON(e, http.MethodDelete, "/api/chapters/11/questions/999", "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChapterListBySubject(t *testing.T) {
	e, _, _, _ := newChapterEnv()

	rec := doJSON(e, http.MethodGet, "/api/subjects/1/chapters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.Chapter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}
