package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
)

// BoardStore is the persistence contract for board CRUD.
type BoardStore interface {
	ListAll(ctx context.Context) ([]model.Board, error)
	GetByID(ctx context.Context, id uint64) (model.Board, error)
	Create(ctx context.Context, b *model.Board) error
	Update(ctx context.Context, b *model.Board) error
	Delete(ctx context.Context, id uint64) error
}

// BoardHandler serves CRUD over curriculum boards.  Reads are public;
// mutations sit behind the auth middleware (wired in the router).
type BoardHandler struct {
	Boards BoardStore
}

func NewBoardHandler(boards BoardStore) *BoardHandler { return &BoardHandler{Boards: boards} }

type boardReq struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// List handles GET /api/boards.
func (h *BoardHandler) List(c echo.Context) error {
	items, err := h.Boards.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/boards/:id.
func (h *BoardHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Boards.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, b)
}

// Create handles POST /api/boards.
func (h *BoardHandler) Create(c echo.Context) error {
	var req boardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}
	b := model.Board{Name: req.Name, Description: req.Description}
	if err := h.Boards.Create(c.Request().Context(), &b); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "board already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create board"})
	}
	created, err := h.Boards.GetByID(c.Request().Context(), b.ID)
	if err != nil {
		created = b
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/boards/:id.
func (h *BoardHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req boardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}
	b := model.Board{ID: id, Name: req.Name, Description: req.Description}
	if err := h.Boards.Update(c.Request().Context(), &b); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		case repository.ErrNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "board already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Boards.GetByID(c.Request().Context(), id)
	if err != nil {
		updated = b
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/boards/:id.
func (h *BoardHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Boards.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "board deleted successfully"})
}
