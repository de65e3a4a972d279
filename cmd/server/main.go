package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/database"
	"github.com/abhyasa-edu/curriculum-api/internal/handler"
	"github.com/abhyasa-edu/curriculum-api/internal/middleware"
	"github.com/abhyasa-edu/curriculum-api/internal/queue"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
	"github.com/abhyasa-edu/curriculum-api/internal/router"
	queue_publisher "github.com/abhyasa-edu/curriculum-api/internal/service"
	"github.com/abhyasa-edu/curriculum-api/internal/validate"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when unavailable, caching and rate limiting
	// degrade to pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	boards := repository.NewBoardRepo(db)
	grades := repository.NewGradeRepo(db)
	subjects := repository.NewSubjectRepo(db)
	chapters := repository.NewChapterRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	adminH := handler.NewAdminHandler(cfg, admins)
	boardH := handler.NewBoardHandler(boards)
	gradeH := handler.NewGradeHandler(grades)
	subjectH := handler.NewSubjectHandler(subjects)
	chapterH := handler.NewChapterHandler(cfg, chapters, subjects, users, queue_publisher.Publisher{})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	corsCfg := echomw.DefaultCORSConfig
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	e.Use(echomw.CORSWithConfig(corsCfg))

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, adminH, cfg.JWTSecret, rl)
	router.RegisterContent(e, boardH, gradeH, subjectH, chapterH, cfg.JWTSecret, cache)

	// Background audit consumer for content-change events.
	go func() {
		if err := queue.StartContentConsumer(); err != nil {
			log.Printf("content consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
