package repository

import (
	"context"
	"errors"

	"github.com/learnai/learnai-api/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations. Store-level
// unique constraints are the concurrency safety net; implementations map
// unique violations onto these so callers can answer with a conflict
// instead of a generic failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines user-related storage operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateImage(ctx context.Context, id, imageURL string) error
}

// AccountRepository manages identity-provider account links.
type AccountRepository interface {
	GetLink(ctx context.Context, provider, providerAccountID string) (*entity.AccountLink, error)
	// CreateUserWithLink inserts the user and its account link in a single
	// transaction; partial creation must not be observable.
	CreateUserWithLink(ctx context.Context, u *entity.User, link *entity.AccountLink) error
	UpdateLinkTokens(ctx context.Context, link *entity.AccountLink) error
}

// ProfileRepository manages student onboarding profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.StudentProfile, error)
	GetByUsername(ctx context.Context, username string) (*entity.StudentProfile, error)
	// Upsert atomically inserts or updates the profile keyed by user id, so
	// concurrent first-time submissions cannot produce two rows.
	Upsert(ctx context.Context, p *entity.StudentProfile) error
}

// LessonRepository reads the lesson catalog.
type LessonRepository interface {
	List(ctx context.Context) ([]entity.Lesson, error)
	Search(ctx context.Context, f entity.LessonFilter) ([]entity.Lesson, error)
}
