package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
	"github.com/abhyasa-edu/curriculum-api/internal/utils"
)

// AdminStore is the credential lookup contract for the admin login.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
}

// AdminHandler serves the separate admin login.  Tokens issued here carry
// the admin role and a longer lifetime; there is no refresh flow for
// admins, matching the console-style usage of the endpoint.
type AdminHandler struct {
	Cfg    config.Config
	Admins AdminStore
}

func NewAdminHandler(cfg config.Config, admins AdminStore) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Admins: admins}
}

type adminLoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies the admin credential record and returns a long-lived
// access token with the admin role claim.  Both unknown-email and
// bad-password failures produce the same 401 body.
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, model.RoleAdmin,
		time.Duration(h.Cfg.AdminTokenTTLDays)*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token.Token})
}
