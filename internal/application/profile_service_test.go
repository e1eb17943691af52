package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/learnai/learnai-api/internal/domain/entity"
)

func newProfileService(profiles *fakeProfileRepo, users *fakeUserRepo) *ProfileService {
	return NewProfileService(profiles, users, nil, nil, "")
}

func validSetup() SetupInput {
	return SetupInput{
		Username:    "ada_l",
		Grade:       "4",
		AgeGroup:    "8-10",
		School:      "Analytical Elementary",
		AvatarColor: "#7c3aed",
	}
}

func TestHasCompletedProfile(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newProfileService(profiles, newFakeUserRepo())
	ctx := context.Background()

	ok, err := svc.HasCompletedProfile(ctx, "user-1")
	if err != nil || ok {
		t.Fatalf("missing row: expected (false, nil), got (%v, %v)", ok, err)
	}

	if err := profiles.Upsert(ctx, &entity.StudentProfile{UserID: "user-1", Username: "ada_l", IsCompleted: false}); err != nil {
		t.Fatalf("seed incomplete: %v", err)
	}
	ok, err = svc.HasCompletedProfile(ctx, "user-1")
	if err != nil || ok {
		t.Fatalf("incomplete row: expected (false, nil), got (%v, %v)", ok, err)
	}

	if _, err := svc.Submit(ctx, "user-1", validSetup()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	ok, err = svc.HasCompletedProfile(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("completed row: expected (true, nil), got (%v, %v)", ok, err)
	}
}

func TestHasCompletedProfileStoreError(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.err = errors.New("store down")
	svc := newProfileService(profiles, newFakeUserRepo())

	ok, err := svc.HasCompletedProfile(context.Background(), "user-1")
	if ok {
		t.Fatal("store error must not report complete")
	}
	if err == nil {
		t.Fatal("store error must surface to the caller")
	}
}

func TestSubmitMarksCompleted(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newProfileService(profiles, newFakeUserRepo())
	ctx := context.Background()

	p, err := svc.Submit(ctx, "user-1", validSetup())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !p.IsCompleted {
		t.Fatal("submitted profile must be completed")
	}
	if p.AgeGroup != entity.AgeGroup8to10 {
		t.Fatalf("unexpected age group %q", p.AgeGroup)
	}

	// resubmitting updates in place
	in := validSetup()
	in.Grade = "5"
	p2, err := svc.Submit(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if p2.ID != p.ID {
		t.Fatalf("resubmit created a second row: %d vs %d", p2.ID, p.ID)
	}
	if p2.Grade != "5" {
		t.Fatalf("expected updated grade, got %q", p2.Grade)
	}
}

func TestSubmitConcurrentSingleRow(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newProfileService(profiles, newFakeUserRepo())
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(ctx, "user-1", validSetup())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if got := len(profiles.profiles); got != 1 {
		t.Fatalf("expected 1 profile row, got %d", got)
	}
	p, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != 1 {
		t.Fatalf("expected single row id 1, got %d", p.ID)
	}
	if !p.IsCompleted {
		t.Fatal("expected completed profile")
	}
}

func TestSubmitRejectsInvalidAgeGroup(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo(), newFakeUserRepo())
	in := validSetup()
	in.AgeGroup = "25-30"
	if _, err := svc.Submit(context.Background(), "user-1", in); !errors.Is(err, ErrInvalidAgeGroup) {
		t.Fatalf("expected ErrInvalidAgeGroup, got %v", err)
	}
}

func TestSubmitUsernameTaken(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newProfileService(profiles, newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "user-1", validSetup()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, "user-2", validSetup()); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUsernameAvailable(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newProfileService(profiles, newFakeUserRepo())
	ctx := context.Background()

	if !svc.UsernameAvailable(ctx, "ada_l") {
		t.Fatal("expected free username to be available")
	}
	if _, err := svc.Submit(ctx, "user-1", validSetup()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if svc.UsernameAvailable(ctx, "ada_l") {
		t.Fatal("expected taken username to be unavailable")
	}

	profiles.err = errors.New("store down")
	if svc.UsernameAvailable(ctx, "someone_else") {
		t.Fatal("store error must report unavailable")
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo(), newFakeUserRepo())
	if _, err := svc.Get(context.Background(), "user-1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
