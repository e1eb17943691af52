package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
	"github.com/learnai/learnai-api/pkg/helpers"
	"github.com/learnai/learnai-api/pkg/validation"
)

type memUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*entity.User{}, byID: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.nextID++
	u.ID = "user-" + strconv.Itoa(m.nextID)
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) UpdateImage(ctx context.Context, id, imageURL string) error { return nil }

func authTestRouter(t *testing.T) (*gin.Engine, *memUserRepo, *helpers.SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := newMemUserRepo()
	svc := application.NewAuthService(users, nil, nil, "learnai", "http://localhost:8080", false)
	sess := helpers.NewSessionManager("test-secret", time.Hour)
	h := NewAuthHandler(svc, sess, nil, "localhost", false)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	return r, users, sess
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterCreated(t *testing.T) {
	r, _, _ := authTestRouter(t)

	w := postJSON(r, "/api/auth/register", gin.H{
		"name": "Ada Lovelace", "email": "ada@x.com", "password": "pw12345",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterConflict(t *testing.T) {
	r, _, _ := authTestRouter(t)

	first := postJSON(r, "/api/auth/register", gin.H{
		"name": "Ada Lovelace", "email": "ada@x.com", "password": "pw12345",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", first.Code)
	}
	second := postJSON(r, "/api/auth/register", gin.H{
		"name": "Ada Again", "email": "ADA@x.com", "password": "pw12345",
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", second.Code, second.Body.String())
	}
}

func TestRegisterInvalidPayload(t *testing.T) {
	r, _, _ := authTestRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "short password", body: gin.H{"name": "Ada Lovelace", "email": "ada@x.com", "password": "pw"}},
		{name: "bad email", body: gin.H{"name": "Ada Lovelace", "email": "not-an-email", "password": "pw12345"}},
		{name: "missing name", body: gin.H{"email": "ada@x.com", "password": "pw12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(r, "/api/auth/register", tt.body); w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, _, sess := authTestRouter(t)

	postJSON(r, "/api/auth/register", gin.H{
		"name": "Ada Lovelace", "email": "ada@x.com", "password": "pw12345",
	})
	w := postJSON(r, "/api/auth/login", gin.H{"email": "ada@x.com", "password": "pw12345"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var token string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookieName {
			token = ck.Value
			if !ck.HttpOnly {
				t.Fatal("session cookie must be HttpOnly")
			}
		}
	}
	if token == "" {
		t.Fatal("session cookie not set")
	}
	if _, err := sess.Resolve(token); err != nil {
		t.Fatalf("cookie token does not resolve: %v", err)
	}
}

func TestLoginFailuresReturnGeneric401(t *testing.T) {
	r, _, _ := authTestRouter(t)

	postJSON(r, "/api/auth/register", gin.H{
		"name": "Ada Lovelace", "email": "ada@x.com", "password": "pw12345",
	})

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "unknown email", body: gin.H{"email": "nobody@x.com", "password": "pw12345"}},
		{name: "wrong password", body: gin.H{"email": "ada@x.com", "password": "wrong-pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/auth/login", tt.body)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			var resp struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Message != "invalid email or password" {
				t.Fatalf("expected generic message, got %q", resp.Message)
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _, _ := authTestRouter(t)

	w := postJSON(r, "/api/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be expired")
	}
}
