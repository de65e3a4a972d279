package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/queue"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
)

// ChapterStore is the persistence contract for chapters and their
// questions.
type ChapterStore interface {
	ListBySubject(ctx context.Context, subjectID uint64) ([]model.Chapter, error)
	GetByID(ctx context.Context, id uint64) (model.Chapter, error)
	Find(ctx context.Context, board, grade, subject string, number uint32) (model.Chapter, error)
	Create(ctx context.Context, ch *model.Chapter) error
	Update(ctx context.Context, ch *model.Chapter) error
	Delete(ctx context.Context, id uint64) error
	AddQuestion(ctx context.Context, q *model.Question) error
	UpdateQuestion(ctx context.Context, q *model.Question) error
	DeleteQuestion(ctx context.Context, chapterID, questionID uint64) error
}

// SubjectLookup verifies parent subjects on chapter creation.
type SubjectLookup interface {
	GetByID(ctx context.Context, id uint64) (model.Subject, error)
}

// ContentPublisher emits content-change events.  May be nil (tests, or
// broker disabled), in which case publishing is skipped.
type ContentPublisher interface {
	PublishContentChanged(ctx context.Context, ev queue.ContentChangedEvent) error
}

// ChapterHandler serves chapter CRUD, question management and the
// read-time visibility projection for chapter detail reads.
type ChapterHandler struct {
	Cfg      config.Config
	Chapters ChapterStore
	Subjects SubjectLookup
	Users    UserStore
	Events   ContentPublisher
}

func NewChapterHandler(cfg config.Config, chapters ChapterStore, subjects SubjectLookup, users UserStore, events ContentPublisher) *ChapterHandler {
	return &ChapterHandler{Cfg: cfg, Chapters: chapters, Subjects: subjects, Users: users, Events: events}
}

type chapterReq struct {
	Title       string  `json:"title" validate:"required"`
	Number      uint32  `json:"number" validate:"required"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
	Notes       *string `json:"notes"`
}

type questionReq struct {
	Prompt      string   `json:"prompt" validate:"required"`
	Options     []string `json:"options" validate:"required,min=2,dive,required"`
	Answer      uint8    `json:"answer"`
	Explanation *string  `json:"explanation"`
}

// chapterPreview is the redacted projection served to unauthenticated
// callers: identity and metadata fields, a bounded prefix of the question
// list, and an explicit restricted flag so clients can tell a partial view
// from a genuinely short chapter.
type chapterPreview struct {
	ID          uint64           `json:"id"`
	SubjectID   uint64           `json:"subject_id"`
	Number      uint32           `json:"number"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Questions   []model.Question `json:"questions"`
	Restricted  bool             `json:"restricted"`
}

// ListBySubject handles GET /api/subjects/:id/chapters.  Question lists
// are not included here, so no projection is needed.
func (h *ChapterHandler) ListBySubject(c echo.Context) error {
	subjectID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Chapters.ListBySubject(c.Request().Context(), subjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/chapters/:id with the visibility projection.
func (h *ChapterHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ch, err := h.Chapters.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chapter not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return h.respondProjected(c, ch)
}

// Find handles GET /api/chapters/find?board=&grade=&subject=&chapter=,
// resolving a chapter through the hierarchy by human-facing names and the
// chapter ordinal.  The same visibility projection applies.
func (h *ChapterHandler) Find(c echo.Context) error {
	board := strings.TrimSpace(c.QueryParam("board"))
	grade := strings.TrimSpace(c.QueryParam("grade"))
	subject := strings.TrimSpace(c.QueryParam("subject"))
	chapter := strings.TrimSpace(c.QueryParam("chapter"))
	if board == "" || grade == "" || subject == "" || chapter == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "board, grade, subject and chapter are required"})
	}
	number, err := strconv.ParseUint(chapter, 10, 32)
	if err != nil || number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chapter number"})
	}
	ch, err := h.Chapters.Find(c.Request().Context(), board, grade, subject, uint32(number))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chapter not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return h.respondProjected(c, ch)
}

// respondProjected returns the full chapter to a caller whose bearer token
// verified AND resolves to an existing subject, and the bounded preview to
// everyone else.  Admin tokens are trusted on the role claim alone since
// admin identities live in a separate table.
func (h *ChapterHandler) respondProjected(c echo.Context, ch model.Chapter) error {
	if h.callerAuthenticated(c) {
		return c.JSON(http.StatusOK, ch)
	}
	limit := h.Cfg.ChapterPreviewLimit
	qs := ch.Questions
	if len(qs) > limit {
		qs = qs[:limit]
	}
	return c.JSON(http.StatusOK, chapterPreview{
		ID:          ch.ID,
		SubjectID:   ch.SubjectID,
		Number:      ch.Number,
		Title:       ch.Title,
		Description: ch.Description,
		Questions:   qs,
		Restricted:  true,
	})
}

// callerAuthenticated reports whether the request carries a verified
// identity that still exists in the credential store.
func (h *ChapterHandler) callerAuthenticated(c echo.Context) bool {
	uid := callerID(c)
	if uid == 0 {
		return false
	}
	if callerRole(c) == model.RoleAdmin {
		return true
	}
	_, err := h.Users.GetByID(c.Request().Context(), uid)
	return err == nil
}

// Create handles POST /api/subjects/:id/chapters (admin).
func (h *ChapterHandler) Create(c echo.Context) error {
	subjectID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req chapterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.Subjects.GetByID(c.Request().Context(), subjectID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subject not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ch := model.Chapter{
		SubjectID:   subjectID,
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Notes:       req.Notes,
	}
	if err := h.Chapters.Create(c.Request().Context(), &ch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create chapter"})
	}
	h.publish(c, queue.ActionChapterCreated, ch.ID, ch.SubjectID, 0, ch.Title)
	return c.JSON(http.StatusCreated, ch)
}

// Update handles PUT /api/chapters/:id (admin).
func (h *ChapterHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	existing, err := h.Chapters.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chapter not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var req chapterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return err
	}
	ch := model.Chapter{
		ID:          id,
		SubjectID:   existing.SubjectID,
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Notes:       req.Notes,
	}
	if err := h.Chapters.Update(c.Request().Context(), &ch); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chapter not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.publish(c, queue.ActionChapterUpdated, id, ch.SubjectID, 0, ch.Title)
	updated, err := h.Chapters.GetByID(c.Request().Context(), id)
	if err != nil {
		updated = ch
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/chapters/:id (admin).
func (h *ChapterHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Chapters.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chapter not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.publish(c, queue.ActionChapterDeleted, id, 0, 0, "")
	return c.JSON(http.StatusOK, echo.Map{"message": "chapter deleted successfully"})
}

// AddQuestion handles POST /api/chapters/:id/questions (admin).
func (h *ChapterHandler) AddQuestion(c echo.Context) error {
	chapterID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req questionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if int(req.Answer) >= len(req.Options) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "answer index out of range"})
	}
	q := model.Question{
		ChapterID:   chapterID,
		Prompt:      strings.TrimSpace(req.Prompt),
		Options:     req.Options,
		Answer:      req.Answer,
		Explanation: req.Explanation,
	}
	if err := h.Chapters.AddQuestion(c.Request().Context(), &q); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chapter not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add question"})
	}
	h.publish(c, queue.ActionQuestionAdded, chapterID, 0, q.ID, "")
	return c.JSON(http.StatusCreated, q)
}

// UpdateQuestion handles PUT /api/chapters/:id/questions/:qid (admin).
func (h *ChapterHandler) UpdateQuestion(c echo.Context) error {
	chapterID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	questionID, ok := paramID(c, "qid")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	var req questionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if int(req.Answer) >= len(req.Options) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "answer index out of range"})
	}
	q := model.Question{
		ID:          questionID,
		ChapterID:   chapterID,
		Prompt:      strings.TrimSpace(req.Prompt),
		Options:     req.Options,
		Answer:      req.Answer,
		Explanation: req.Explanation,
	}
	if err := h.Chapters.UpdateQuestion(c.Request().Context(), &q); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.publish(c, queue.ActionQuestionUpdated, chapterID, 0, questionID, "")
	return c.JSON(http.StatusOK, q)
}

// DeleteQuestion handles DELETE /api/chapters/:id/questions/:qid (admin).
func (h *ChapterHandler) DeleteQuestion(c echo.Context) error {
	chapterID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	questionID, ok := paramID(c, "qid")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	if err := h.Chapters.DeleteQuestion(c.Request().Context(), chapterID, questionID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.publish(c, queue.ActionQuestionDeleted, chapterID, 0, questionID, "")
	return c.JSON(http.StatusOK, echo.Map{"message": "question deleted successfully"})
}

// publish emits a content-change event best effort; broker failures never
// affect the request outcome.
func (h *ChapterHandler) publish(c echo.Context, action string, chapterID, subjectID, questionID uint64, title string) {
	if h.Events == nil {
		return
	}
	ev := queue.ContentChangedEvent{
		Action:     action,
		ChapterID:  chapterID,
		SubjectID:  subjectID,
		QuestionID: questionID,
		Title:      title,
		ActorID:    callerID(c),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = h.Events.PublishContentChanged(context.Background(), ev) }()
}
