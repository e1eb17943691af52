package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, user_id, username, grade, age_group, school, avatar_color, is_completed, created_at, updated_at`

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.StudentProfile, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM student_profiles WHERE user_id = $1
	`, userID))
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*entity.StudentProfile, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM student_profiles WHERE username = $1
	`, username))
}

// Upsert inserts or updates the profile keyed by user_id in one statement.
// Two concurrent first-time submissions race on the user_id constraint and
// the loser turns into an update, so exactly one row survives.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.StudentProfile) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO student_profiles (user_id, username, grade, age_group, school, avatar_color, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			username     = EXCLUDED.username,
			grade        = EXCLUDED.grade,
			age_group    = EXCLUDED.age_group,
			school       = EXCLUDED.school,
			avatar_color = EXCLUDED.avatar_color,
			is_completed = EXCLUDED.is_completed,
			updated_at   = now()
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Username, p.Grade, p.AgeGroup, p.School, p.AvatarColor, p.IsCompleted)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err, "student_profiles_username_key") {
			return repository.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *ProfileRepository) scanOne(row pgx.Row) (*entity.StudentProfile, error) {
	p := &entity.StudentProfile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.Grade, &p.AgeGroup,
		&p.School, &p.AvatarColor, &p.IsCompleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
