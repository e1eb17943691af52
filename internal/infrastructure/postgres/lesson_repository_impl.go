package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
)

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

const lessonColumns = `id, title, description, category, grade_level, difficulty, estimated_time, emoji, created_at`

func (r *LessonRepository) List(ctx context.Context) ([]entity.Lesson, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lessonColumns+` FROM lessons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLessons(rows)
}

// Search applies the catalog filters in SQL. Used directly and as the
// fallback when Elasticsearch is not configured.
func (r *LessonRepository) Search(ctx context.Context, f entity.LessonFilter) ([]entity.Lesson, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		conds = append(conds, "(title ILIKE "+p+" OR description ILIKE "+p+" OR category ILIKE "+p+")")
	}
	if f.Category != "" && !strings.EqualFold(f.Category, "all") {
		conds = append(conds, "lower(category) = lower("+arg(f.Category)+")")
	}
	if f.Difficulty != "" {
		conds = append(conds, "lower(difficulty) = lower("+arg(f.Difficulty)+")")
	}
	if f.GradeLevel != "" {
		// grade_level is a range label like "1-3"; match when the requested
		// grade falls inside it
		p := arg(f.GradeLevel)
		conds = append(conds, "(split_part(grade_level, '-', 1)::int <= "+p+"::int AND split_part(grade_level, '-', 2)::int >= "+p+"::int)")
	}

	q := `SELECT ` + lessonColumns + ` FROM lessons`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLessons(rows)
}

func scanLessons(rows pgx.Rows) ([]entity.Lesson, error) {
	out := make([]entity.Lesson, 0)
	for rows.Next() {
		var l entity.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Category,
			&l.GradeLevel, &l.Difficulty, &l.EstimatedTime, &l.Emoji, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

var _ repository.LessonRepository = (*LessonRepository)(nil)
