package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
	"github.com/learnai/learnai-api/pkg/helpers"
	"github.com/learnai/learnai-api/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers every credential sign-in failure: unknown
	// email, wrong password, federated-only user. Callers must not
	// distinguish them, to avoid user enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// AuthService implements registration and the credential verifier.
type AuthService struct {
	Users       repository.UserRepository
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	AppName     string
	BaseURL     string
	MailEnabled bool
}

func NewAuthService(users repository.UserRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger, appName, baseURL string, mailEnabled bool) *AuthService {
	return &AuthService{Users: users, Pub: pub, Logger: logger, AppName: appName, BaseURL: baseURL, MailEnabled: mailEnabled}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a credential-backed user. The email is lowercased before
// the uniqueness check and the insert; the unique constraint catches any
// concurrent duplicate the pre-check misses.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     in.Name,
		Email:    email,
		Password: &hash,
		Role:     entity.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendWelcome(ctx, u)
	return u, nil
}

// Authenticate verifies an email/password pair and returns the minimal
// identity on match. Every failure mode collapses into ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.Identity, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !u.HasPassword() {
		// federated-only user; no hash to compare against
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(*u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	id := u.Identity()
	return &id, nil
}

// GetUser returns the user for an authenticated session id.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *AuthService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name":      u.Name,
			"SignInURL": strings.TrimRight(s.BaseURL, "/") + "/sign-in",
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email publish failed")
	}
}
