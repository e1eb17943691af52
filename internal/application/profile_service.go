package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
	"github.com/learnai/learnai-api/pkg/helpers"
)

var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidAgeGroup = errors.New("invalid age group")
)

// ProfileService manages student profiles and the completeness gate.
type ProfileService struct {
	Profiles  repository.ProfileRepository
	Users     repository.UserRepository
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
}

func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *ProfileService {
	return &ProfileService{Profiles: profiles, Users: users, Logger: logger, GCS: gcs, GCSBucket: gcsBucket}
}

// HasCompletedProfile reports whether a profile row exists for userID with
// is_completed set. A missing row and an incomplete row both return false
// with a nil error; only store failures surface as errors, and callers must
// treat those as "not complete" (fail closed).
func (s *ProfileService) HasCompletedProfile(ctx context.Context, userID string) (bool, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsCompleted, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*entity.StudentProfile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

type SetupInput struct {
	Username    string
	Grade       string
	AgeGroup    string
	School      string
	AvatarColor string
}

// Submit applies a finished setup wizard: a single atomic upsert keyed by
// user id that also flips the profile to completed. Concurrent first-time
// submissions collapse to one row via the store constraint.
func (s *ProfileService) Submit(ctx context.Context, userID string, in SetupInput) (*entity.StudentProfile, error) {
	ag := entity.AgeGroup(in.AgeGroup)
	if !ag.Valid() {
		return nil, ErrInvalidAgeGroup
	}
	p := &entity.StudentProfile{
		UserID:      userID,
		Username:    strings.TrimSpace(in.Username),
		Grade:       in.Grade,
		AgeGroup:    ag,
		School:      in.School,
		AvatarColor: in.AvatarColor,
		IsCompleted: true,
	}
	if err := s.Profiles.Upsert(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return p, nil
}

// UsernameAvailable reports whether no profile holds the username. Lookup
// errors report unavailable, so a flaky store cannot hand out a duplicate.
func (s *ProfileService) UsernameAvailable(ctx context.Context, username string) bool {
	_, err := s.Profiles.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", username).Warn("username availability check failed")
	}
	return false
}

// UploadAvatar stores the image in GCS and records its public URL on the user.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdateImage(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
