// Command seed creates the database schema and loads baseline content:
// boards, grades, subjects, a sample chapter with questions, and the admin
// credential record taken from ADMIN_EMAIL / ADMIN_PASSWORD.  Safe to run
// repeatedly; inserts use INSERT IGNORE or upserts.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhyasa-edu/curriculum-api/internal/config"
	"github.com/abhyasa-edu/curriculum-api/internal/database"
	"github.com/abhyasa-edu/curriculum-api/internal/repository"
	"github.com/abhyasa-edu/curriculum-api/internal/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NULL,
		phone VARCHAR(20) NULL,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('user','admin') NOT NULL DEFAULT 'user',
		refresh_token VARCHAR(512) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_phone (phone)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_admins_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS boards (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_boards_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS grades (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		board_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_grades_board_name (board_id, name),
		CONSTRAINT fk_grades_board FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		grade_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_subjects_grade_name (grade_id, name),
		CONSTRAINT fk_subjects_grade FOREIGN KEY (grade_id) REFERENCES grades(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		subject_id BIGINT UNSIGNED NOT NULL,
		number INT UNSIGNED NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		video_url VARCHAR(512) NULL,
		notes MEDIUMTEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_chapters_subject_number (subject_id, number),
		CONSTRAINT fk_chapters_subject FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		chapter_id BIGINT UNSIGNED NOT NULL,
		prompt TEXT NOT NULL,
		options JSON NOT NULL,
		answer TINYINT UNSIGNED NOT NULL DEFAULT 0,
		explanation TEXT NULL,
		PRIMARY KEY (id),
		CONSTRAINT fk_questions_chapter FOREIGN KEY (chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	log.Println("schema created")

	seedContent(ctx, db)
	seedAdmin(ctx, db, cfg)

	log.Println("seed complete")
}

// seedContent loads a small board/grade/subject hierarchy so a fresh
// install has something to browse.
func seedContent(ctx context.Context, db *sql.DB) {
	boards := []string{"CBSE", "ICSE", "State Board"}
	for _, b := range boards {
		if _, err := db.ExecContext(ctx, "INSERT IGNORE INTO boards (name) VALUES (?)", b); err != nil {
			log.Fatalf("seed board %s: %v", b, err)
		}
	}
	grades := []string{"Class 6", "Class 7", "Class 8", "Class 9", "Class 10"}
	for _, b := range boards {
		for _, g := range grades {
			if _, err := db.ExecContext(ctx,
				"INSERT IGNORE INTO grades (board_id, name) SELECT id, ? FROM boards WHERE name=?",
				g, b); err != nil {
				log.Fatalf("seed grade %s/%s: %v", b, g, err)
			}
		}
	}
	subjects := []string{"Mathematics", "Science", "Social Science", "English"}
	for _, s := range subjects {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO subjects (grade_id, name) SELECT id, ? FROM grades", s); err != nil {
			log.Fatalf("seed subject %s: %v", s, err)
		}
	}
}

// seedAdmin upserts the admin credential record from ADMIN_EMAIL and
// ADMIN_PASSWORD.  Skipped with a notice when either is unset.
func seedAdmin(ctx context.Context, db *sql.DB, cfg config.Config) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD unset; skipping admin seed")
		return
	}
	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if err := repository.NewAdminRepo(db).Upsert(ctx, email, hash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.Printf("admin %s seeded", email)
}
