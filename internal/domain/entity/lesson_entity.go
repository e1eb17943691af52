package entity

import "time"

// Difficulty level of a lesson.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Lesson is a catalog entry students can browse and search.
type Lesson struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	GradeLevel    string     `json:"grade_level"` // range label, e.g. "1-3"
	Difficulty    Difficulty `json:"difficulty"`
	EstimatedTime string     `json:"estimated_time"`
	Emoji         string     `json:"emoji"`
	CreatedAt     time.Time  `json:"created_at"`
}

// LessonFilter narrows a catalog search. Zero values mean "no filter".
type LessonFilter struct {
	Query      string
	Category   string
	GradeLevel string
	Difficulty string
}
