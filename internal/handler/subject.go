package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
)

// SubjectStore is the persistence contract for subject CRUD.
type SubjectStore interface {
	List(ctx context.Context, gradeID uint64) ([]model.Subject, error)
	GetByID(ctx context.Context, id uint64) (model.Subject, error)
	Create(ctx context.Context, s *model.Subject) error
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id uint64) error
}

// SubjectHandler serves CRUD over subjects.
type SubjectHandler struct {
	Subjects SubjectStore
}

func NewSubjectHandler(subjects SubjectStore) *SubjectHandler {
	return &SubjectHandler{Subjects: subjects}
}

type subjectReq struct {
	Name        string  `json:"name" validate:"required"`
	GradeID     uint64  `json:"grade_id" validate:"required"`
	Description *string `json:"description"`
}

// List handles GET /api/subjects with an optional ?grade= filter.
func (h *SubjectHandler) List(c echo.Context) error {
	var gradeID uint64
	if s := c.QueryParam("grade"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid grade filter"})
		}
		gradeID = id
	}
	items, err := h.Subjects.List(c.Request().Context(), gradeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/subjects/:id.
func (h *SubjectHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Subjects.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subject not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, s)
}

// Create handles POST /api/subjects.
func (h *SubjectHandler) Create(c echo.Context) error {
	var req subjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}
	s := model.Subject{GradeID: req.GradeID, Name: req.Name, Description: req.Description}
	if err := h.Subjects.Create(c.Request().Context(), &s); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "grade not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create subject"})
	}
	created, err := h.Subjects.GetByID(c.Request().Context(), s.ID)
	if err != nil {
		created = s
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/subjects/:id.
func (h *SubjectHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req subjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}
	s := model.Subject{ID: id, GradeID: req.GradeID, Name: req.Name, Description: req.Description}
	if err := h.Subjects.Update(c.Request().Context(), &s); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subject not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Subjects.GetByID(c.Request().Context(), id)
	if err != nil {
		updated = s
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/subjects/:id.
func (h *SubjectHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Subjects.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subject not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "subject deleted successfully"})
}
