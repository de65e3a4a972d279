// Package router defines how HTTP routes are registered for the API.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhyasa-edu/curriculum-api/internal/handler"
	"github.com/abhyasa-edu/curriculum-api/internal/middleware"
)

// RegisterRoutes registers routes that do not depend on any handler state:
// a root liveness message and the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Curriculum API is running...")
	})
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the user auth endpoints under /api/auth and the
// separate admin login under /api/admin.  rl is the rate-limit middleware
// applied to the credential-bearing endpoints; pass a pass-through
// middleware to disable it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, ad *handler.AdminHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	g := e.Group("/api/auth", rl)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	// Protected echo of the resolved claims.
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))

	e.POST("/api/admin/login", ad.Login, rl)
}

// RegisterContent registers the content hierarchy.  Reads are public;
// board/grade/subject mutations require authentication, while chapter and
// question mutations additionally require the admin role asserted from the
// token claim.  cache wraps the cacheable public list endpoints; chapter
// detail reads are deliberately not cached because their response shape
// depends on the caller's authentication.
func RegisterContent(e *echo.Echo, b *handler.BoardHandler, g *handler.GradeHandler, s *handler.SubjectHandler, ch *handler.ChapterHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	authed := middleware.JWTAuth(jwtSecret)
	admin := []echo.MiddlewareFunc{authed, middleware.RequireRole("admin")}
	optional := middleware.OptionalJWT(jwtSecret)

	// Boards
	e.GET("/api/boards", b.List, cache)
	e.GET("/api/boards/:id", b.Get, cache)
	e.POST("/api/boards", b.Create, authed)
	e.PUT("/api/boards/:id", b.Update, authed)
	e.DELETE("/api/boards/:id", b.Delete, authed)

	// Grades
	e.GET("/api/grades", g.List, cache)
	e.GET("/api/grades/:id", g.Get, cache)
	e.POST("/api/grades", g.Create, authed)
	e.PUT("/api/grades/:id", g.Update, authed)
	e.DELETE("/api/grades/:id", g.Delete, authed)

	// Subjects
	e.GET("/api/subjects", s.List, cache)
	e.GET("/api/subjects/:id", s.Get, cache)
	e.POST("/api/subjects", s.Create, authed)
	e.PUT("/api/subjects/:id", s.Update, authed)
	e.DELETE("/api/subjects/:id", s.Delete, authed)

	// Chapters
	e.GET("/api/subjects/:id/chapters", ch.ListBySubject, cache)
	e.GET("/api/chapters/find", ch.Find, optional)
	e.GET("/api/chapters/:id", ch.Get, optional)
	e.POST("/api/subjects/:id/chapters", ch.Create, admin...)
	e.PUT("/api/chapters/:id", ch.Update, admin...)
	e.DELETE("/api/chapters/:id", ch.Delete, admin...)

	// Questions (MCQs)
	e.POST("/api/chapters/:id/questions", ch.AddQuestion, admin...)
	e.PUT("/api/chapters/:id/questions/:qid", ch.UpdateQuestion, admin...)
	e.DELETE("/api/chapters/:id/questions/:qid", ch.DeleteQuestion, admin...)
}
