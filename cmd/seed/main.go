package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/learnai/learnai-api/config"
	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/pkg/helpers"
)

type seedLesson struct {
	title         string
	description   string
	category      string
	difficulty    entity.Difficulty
	gradeLevel    string
	estimatedTime string
	emoji         string
}

var lessons = []seedLesson{
	{"Addition & Subtraction Adventures", "Learn to add and subtract numbers in a fun space adventure!", "math", entity.DifficultyBeginner, "1-2", "15 minutes", "🚀"},
	{"Dinosaur Discovery", "Explore the world of dinosaurs and learn amazing facts!", "science", entity.DifficultyBeginner, "1-3", "20 minutes", "🦕"},
	{"Multiplication Mountain", "Climb the mountain by solving multiplication problems.", "math", entity.DifficultyIntermediate, "3-5", "25 minutes", "⛰️"},
	{"Story Starters", "Kick off your own short story with guided writing prompts.", "reading", entity.DifficultyBeginner, "2-4", "20 minutes", "📖"},
	{"Weather Watchers", "Track clouds, rain and sunshine like a real meteorologist.", "science", entity.DifficultyIntermediate, "4-6", "30 minutes", "🌦️"},
	{"Fraction Pizza Party", "Slice pizzas to understand halves, thirds and quarters.", "math", entity.DifficultyIntermediate, "4-6", "25 minutes", "🍕"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@learnai.dev"
	password := "password123"
	name := "Demo Student"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	// Give the demo user a finished profile so it skips the setup wizard
	if _, err := db.Exec(`
		INSERT INTO student_profiles (user_id, username, grade, age_group, school, avatar_color, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		ON CONFLICT (user_id) DO UPDATE SET is_completed = true, updated_at = now()
	`, userID, "demo_student", "4", string(entity.AgeGroup8to10), "Demo Elementary", "#7c3aed"); err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	fmt.Println("seeded demo profile")

	seeded := make([]entity.Lesson, 0, len(lessons))
	for _, l := range lessons {
		var row entity.Lesson
		err := db.QueryRow(`
			INSERT INTO lessons (title, description, category, difficulty, grade_level, estimated_time, emoji)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (title) DO UPDATE SET description = EXCLUDED.description
			RETURNING id, title, description, category, grade_level, difficulty, estimated_time, emoji, created_at
		`, l.title, l.description, l.category, string(l.difficulty), l.gradeLevel, l.estimatedTime, l.emoji).Scan(
			&row.ID, &row.Title, &row.Description, &row.Category, &row.GradeLevel,
			&row.Difficulty, &row.EstimatedTime, &row.Emoji, &row.CreatedAt,
		)
		if err != nil {
			log.Fatalf("failed to seed lesson %q: %v", l.title, err)
		}
		seeded = append(seeded, row)
	}
	fmt.Printf("seeded %d lessons\n", len(seeded))

	// Mirror lessons into Elasticsearch when it is reachable
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Printf("elasticsearch unavailable, skipping index: %v", err)
		return
	}
	svc := application.NewLessonService(nil, es, cfg.ESLessonsIndex, nil)
	ctx := context.Background()
	indexed := 0
	for _, l := range seeded {
		if err := svc.IndexLesson(ctx, l); err != nil {
			log.Printf("index lesson %d failed: %v", l.ID, err)
			continue
		}
		indexed++
	}
	fmt.Printf("indexed %d lessons into %s\n", indexed, cfg.ESLessonsIndex)
}
