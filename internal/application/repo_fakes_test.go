package application

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
)

// In-memory repository fakes used across the service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User // keyed by id
	nextID int
	err    error // when set, every call fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u.Email = strings.ToLower(u.Email)
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = "user-" + strconv.Itoa(f.nextID)
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateImage(ctx context.Context, id, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Image = imageURL
	return nil
}

type fakeAccountRepo struct {
	mu    sync.Mutex
	users *fakeUserRepo
	links map[string]*entity.AccountLink // keyed by provider:accountID
}

func newFakeAccountRepo(users *fakeUserRepo) *fakeAccountRepo {
	return &fakeAccountRepo{users: users, links: make(map[string]*entity.AccountLink)}
}

func linkKey(provider, accountID string) string { return provider + ":" + accountID }

func (f *fakeAccountRepo) GetLink(ctx context.Context, provider, providerAccountID string) (*entity.AccountLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.links[linkKey(provider, providerAccountID)]; ok {
		return l, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccountRepo) CreateUserWithLink(ctx context.Context, u *entity.User, link *entity.AccountLink) error {
	if err := f.users.Create(ctx, u); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	link.UserID = u.ID
	f.links[linkKey(link.Provider, link.ProviderAccountID)] = link
	return nil
}

func (f *fakeAccountRepo) UpdateLinkTokens(ctx context.Context, link *entity.AccountLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.links[linkKey(link.Provider, link.ProviderAccountID)]; !ok {
		return repository.ErrNotFound
	}
	f.links[linkKey(link.Provider, link.ProviderAccountID)] = link
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*entity.StudentProfile // keyed by user id
	nextID   int64
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entity.StudentProfile)}
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) GetByUsername(ctx context.Context, username string) (*entity.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *entity.StudentProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for uid, ex := range f.profiles {
		if ex.Username == p.Username && uid != p.UserID {
			return repository.ErrDuplicateUsername
		}
	}
	if ex, ok := f.profiles[p.UserID]; ok {
		p.ID = ex.ID
	} else {
		f.nextID++
		p.ID = f.nextID
	}
	f.profiles[p.UserID] = p
	return nil
}

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.AccountRepository = (*fakeAccountRepo)(nil)
	_ repository.ProfileRepository = (*fakeProfileRepo)(nil)
)
