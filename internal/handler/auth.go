package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/middleware"
	"github.com/abhyasa-edu/curriculum-api/internal/model"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
	"github.com/abhyasa-edu/curriculum-api/internal/utils"
	"github.com/abhyasa-edu/curriculum-api/internal/validate"
)

// refreshCookieName is the cookie carrying the refresh token.  It is
// httpOnly and SameSite=Lax; Secure is added outside dev.
const refreshCookieName = "refreshToken"

// emailRE mirrors the permissive identifier classification used at login:
// anything shaped user@host.tld counts as an email attempt.
var emailRE = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserStore is the credential-store contract the auth endpoints need.  It
// is satisfied by *repository.UserRepo and by in-memory fakes in tests.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByPhone(ctx context.Context, phone string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SaveRefreshToken(ctx context.Context, id uint64, token string) error
	RotateRefreshToken(ctx context.Context, id uint64, prev, next string) error
	ClearRefreshToken(ctx context.Context, id uint64, token string) error
}

// AuthHandler bundles dependencies for the user auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,mobile"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Username   string `json:"username"`
	Password   string `json:"password" validate:"required"`
}

type authResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  uint64 `json:"userId"`
}

// Register creates a user, then performs the same token-issue-and-persist
// sequence as login so the client is signed in immediately.  The admin role
// is granted only to emails in the configured bootstrap list.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Email == "" && req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email or phone is required"})
	}

	role := model.RoleUser
	if req.Email != "" && h.Cfg.IsAdminEmail(req.Email) {
		role = model.RoleAdmin
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	u := model.User{
		Name:         req.Name,
		Email:        nullable(req.Email),
		Phone:        nullable(req.Phone),
		PasswordHash: hash,
		Role:         role,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Create(ctx, &u); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "user with given email already exists"})
		case repository.ErrPhoneExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "user with given phone number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := h.issueSession(ctx, c, u.ID, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, authResp{Message: "user registered successfully", Token: access, UserID: u.ID})
}

// Login accepts a flexible identifier (email or phone in any of several
// body fields), verifies the password and issues a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	identifier := strings.TrimSpace(firstNonEmpty(req.Identifier, req.Email, req.Phone, req.Username))
	if identifier == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier required (email or phone)"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		u   model.User
		err error
	)
	switch {
	case emailRE.MatchString(identifier):
		u, err = h.Users.GetByEmail(ctx, strings.ToLower(identifier))
	case validate.IsMobile(identifier):
		u, err = h.Users.GetByPhone(ctx, identifier)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found, please sign up instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email/phone or password"})
	}

	access, err := h.issueSession(ctx, c, u.ID, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{Message: "login successful", Token: access, UserID: u.ID})
}

// Refresh exchanges a valid refresh cookie for a new token pair.  The
// presented token must survive signature/expiry verification AND exactly
// match the value stored against the subject; the swap to the new value is
// a compare-and-swap, so a token that was already rotated out or cleared
// by logout fails with a mismatch even though its signature is still good.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no refresh token provided"})
	}
	presented := cookie.Value

	claims, err := utils.VerifyToken(h.Cfg.RefreshSigningSecret(), presented)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token mismatch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSigningSecret(), u.ID,
		time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Users.RotateRefreshToken(ctx, u.ID, presented, refresh.Token); err != nil {
		if err == repository.ErrTokenMismatch {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token mismatch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	h.setRefreshCookie(c, refresh.Token)
	return c.JSON(http.StatusOK, echo.Map{"token": access.Token})
}

// Logout clears the server-side session and the client cookie.  The token
// is decoded without verification so that an expired or tampered cookie can
// still name the session to clear; the store only nulls the value when it
// matches the presented string, so a forged subject id cannot clear someone
// else's live session.  The cookie is cleared regardless.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if uid, ok := utils.DecodeSubjectUnverified(cookie.Value); ok {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			if err := h.Users.ClearRefreshToken(ctx, uid, cookie.Value); err != nil {
				log.Printf("logout: clear refresh token for user %d failed: %v", uid, err)
			}
		}
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the claims resolved by the auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get(middleware.CtxUserID),
		"role":    c.Get(middleware.CtxRole),
	})
}

// issueSession mints an access+refresh pair, persists the refresh token as
// the user's single active session and sets the refresh cookie.  Returns
// the access token string.
func (h *AuthHandler) issueSession(ctx context.Context, c echo.Context, userID uint64, role string) (string, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return "", err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSigningSecret(), userID,
		time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return "", err
	}
	if err := h.Users.SaveRefreshToken(ctx, userID, refresh.Token); err != nil {
		return "", err
	}
	h.setRefreshCookie(c, refresh.Token)
	return access.Token, nil
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.Cfg.RefreshTTLDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// nullable converts an optional string into its sql representation.
func nullable(s string) (ns sql.NullString) {
	if s != "" {
		ns.String = s
		ns.Valid = true
	}
	return
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
