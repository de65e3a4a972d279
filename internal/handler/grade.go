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

// GradeStore is the persistence contract for grade CRUD.
type GradeStore interface {
	List(ctx context.Context, boardID uint64) ([]model.Grade, error)
	GetByID(ctx context.Context, id uint64) (model.Grade, error)
	Create(ctx context.Context, g *model.Grade) error
	Update(ctx context.Context, g *model.Grade) error
	Delete(ctx context.Context, id uint64) error
}

// GradeHandler serves CRUD over grades.
type GradeHandler struct {
	Grades GradeStore
}

func NewGradeHandler(grades GradeStore) *GradeHandler { return &GradeHandler{Grades: grades} }

type gradeReq struct {
	Name    string `json:"name" validate:"required"`
	BoardID uint64 `json:"board_id" validate:"required"`
}

// List handles GET /api/grades with an optional ?board= filter.
func (h *GradeHandler) List(c echo.Context) error {
	var boardID uint64
	if s := c.QueryParam("board"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid board filter"})
		}
		boardID = id
	}
	items, err := h.Grades.List(c.Request().Context(), boardID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/grades/:id.
func (h *GradeHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Grades.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "grade not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, g)
}

// Create handles POST /api/grades.
func (h *GradeHandler) Create(c echo.Context) error {
	var req gradeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}
	g := model.Grade{BoardID: req.BoardID, Name: req.Name}
	if err := h.Grades.Create(c.Request().Context(), &g); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create grade"})
	}
	created, err := h.Grades.GetByID(c.Request().Context(), g.ID)
	if err != nil {
		created = g
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/grades/:id.
func (h *GradeHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req gradeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}
	g := model.Grade{ID: id, BoardID: req.BoardID, Name: req.Name}
	if err := h.Grades.Update(c.Request().Context(), &g); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "grade not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Grades.GetByID(c.Request().Context(), id)
	if err != nil {
		updated = g
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/grades/:id.
func (h *GradeHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Grades.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "grade not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "grade deleted successfully"})
}
