package handler

// Shared test fixtures: an Echo instance with the request validator wired,
// a test config, and in-memory store fakes that mirror the repository
// semantics (duplicate detection, compare-and-swap rotation).

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
	"github.com/abhyasa-edu/curriculum-api/internal/validate"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		JWTSecret:           "access-secret",
		RefreshSecret:       "refresh-secret",
		AccessTTLMin:        15,
		RefreshTTLDays:      7,
		AdminTokenTTLDays:   30,
		BcryptCost:          4, // bcrypt.MinCost keeps tests fast
		ChapterPreviewLimit: 6,
		AdminEmails:         []string{"boot@admin.com"},
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validate.New()
	return e
}

// doJSON dispatches a JSON request through the router so that validation
// errors are rendered the same way they are in production.
func doJSON(e *echo.Echo, method, target, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// responseCookie finds a cookie by name on a recorded response.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// ----- in-memory user store -----

type memUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint64]*model.User{}}
}

func (s *memUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.users {
		if u.Email.Valid && ex.Email.Valid && ex.Email.String == u.Email.String {
			return repository.ErrEmailExists
		}
		if u.Phone.Valid && ex.Phone.Valid && ex.Phone.String == u.Phone.String {
			return repository.ErrPhoneExists
		}
	}
	s.seq++
	u.ID = s.seq
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email.Valid && u.Email.String == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByPhone(_ context.Context, phone string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone.Valid && u.Phone.String == phone {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) SaveRefreshToken(_ context.Context, id uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = sql.NullString{String: token, Valid: true}
	return nil
}

func (s *memUserStore) RotateRefreshToken(_ context.Context, id uint64, prev, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.RefreshToken.Valid || u.RefreshToken.String != prev {
		return repository.ErrTokenMismatch
	}
	u.RefreshToken = sql.NullString{String: next, Valid: true}
	return nil
}

func (s *memUserStore) ClearRefreshToken(_ context.Context, id uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok && u.RefreshToken.Valid && u.RefreshToken.String == token {
		u.RefreshToken = sql.NullString{}
	}
	return nil
}

// storedRefresh returns the stored refresh token for assertions.
func (s *memUserStore) storedRefresh(id uint64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok && u.RefreshToken.Valid {
		return u.RefreshToken.String, true
	}
	return "", false
}

// ----- in-memory admin store -----

type memAdminStore struct {
	admins map[string]model.Admin
}

func (s *memAdminStore) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	if a, ok := s.admins[email]; ok {
		return a, nil
	}
	return model.Admin{}, repository.ErrNotFound
}

// ----- in-memory chapter store -----

type memChapterStore struct {
	chapters map[uint64]model.Chapter
}

func (s *memChapterStore) ListBySubject(_ context.Context, subjectID uint64) ([]model.Chapter, error) {
	out := []model.Chapter{}
	for _, ch := range s.chapters {
		if ch.SubjectID == subjectID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (s *memChapterStore) GetByID(_ context.Context, id uint64) (model.Chapter, error) {
	if ch, ok := s.chapters[id]; ok {
		return ch, nil
	}
	return model.Chapter{}, repository.ErrNotFound
}

func (s *memChapterStore) Find(_ context.Context, _, _, _ string, number uint32) (model.Chapter, error) {
	for _, ch := range s.chapters {
		if ch.Number == number {
			return ch, nil
		}
	}
	return model.Chapter{}, repository.ErrNotFound
}

func (s *memChapterStore) Create(_ context.Context, ch *model.Chapter) error {
	ch.ID = uint64(len(s.chapters) + 1)
	s.chapters[ch.ID] = *ch
	return nil
}

func (s *memChapterStore) Update(_ context.Context, ch *model.Chapter) error {
	if _, ok := s.chapters[ch.ID]; !ok {
		return repository.ErrNotFound
	}
	s.chapters[ch.ID] = *ch
	return nil
}

func (s *memChapterStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.chapters[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.chapters, id)
	return nil
}

func (s *memChapterStore) AddQuestion(_ context.Context, q *model.Question) error {
	ch, ok := s.chapters[q.ChapterID]
	if !ok {
		return repository.ErrNotFound
	}
	q.ID = uint64(len(ch.Questions) + 1)
	ch.Questions = append(ch.Questions, *q)
	s.chapters[q.ChapterID] = ch
	return nil
}

func (s *memChapterStore) UpdateQuestion(_ context.Context, q *model.Question) error {
	ch, ok := s.chapters[q.ChapterID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range ch.Questions {
		if ch.Questions[i].ID == q.ID {
			ch.Questions[i] = *q
			s.chapters[q.ChapterID] = ch
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memChapterStore) DeleteQuestion(_ context.Context, chapterID, questionID uint64) error {
	ch, ok := s.chapters[chapterID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range ch.Questions {
		if ch.Questions[i].ID == questionID {
			ch.Questions = append(ch.Questions[:i], ch.Questions[i+1:]...)
			s.chapters[chapterID] = ch
			return nil
		}
	}
	return repository.ErrNotFound
}

// ----- subject lookup fake -----

type memSubjectLookup struct {
	subjects map[uint64]model.Subject
}

func (s *memSubjectLookup) GetByID(_ context.Context, id uint64) (model.Subject, error) {
	if sub, ok := s.subjects[id]; ok {
		return sub, nil
	}
	return model.Subject{}, repository.ErrNotFound
}
