package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnai/learnai-api/pkg/helpers"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		hasSession      bool
		profileComplete bool
		want            Decision
	}{
		{name: "anonymous on sign-in", path: "/sign-in", want: DecisionAllow},
		{name: "anonymous on sign-up", path: "/sign-up", want: DecisionAllow},
		{name: "anonymous on auth api", path: "/api/auth/login", want: DecisionAllow},
		{name: "anonymous on home", path: "/", want: DecisionSignIn},
		{name: "anonymous on dashboard", path: "/dashboard", want: DecisionSignIn},
		{name: "anonymous on setup", path: "/setup", want: DecisionSignIn},

		{name: "signed-in on sign-in", path: "/sign-in", hasSession: true, profileComplete: true, want: DecisionHome},
		{name: "signed-in on sign-up", path: "/sign-up", hasSession: true, want: DecisionHome},
		{name: "signed-in incomplete on sign-in", path: "/sign-in", hasSession: true, want: DecisionHome},
		{name: "signed-in on auth api", path: "/api/auth/session", hasSession: true, want: DecisionAllow},

		{name: "incomplete on dashboard", path: "/dashboard", hasSession: true, want: DecisionSetup},
		{name: "incomplete on home", path: "/", hasSession: true, want: DecisionSetup},
		{name: "incomplete on setup", path: "/setup", hasSession: true, want: DecisionAllow},

		{name: "complete on setup", path: "/setup", hasSession: true, profileComplete: true, want: DecisionHome},
		{name: "complete on dashboard", path: "/dashboard", hasSession: true, profileComplete: true, want: DecisionAllow},
		{name: "complete on home", path: "/", hasSession: true, profileComplete: true, want: DecisionAllow},
		{name: "complete on explore", path: "/explore", hasSession: true, profileComplete: true, want: DecisionAllow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.path, tt.hasSession, tt.profileComplete)
			if got != tt.want {
				t.Fatalf("Decide(%q, %v, %v) = %v, want %v",
					tt.path, tt.hasSession, tt.profileComplete, got, tt.want)
			}
		})
	}
}

type fakeGate struct {
	complete bool
	err      error
	calls    int
}

func (f *fakeGate) HasCompletedProfile(ctx context.Context, userID string) (bool, error) {
	f.calls++
	return f.complete, f.err
}

func accessRouter(t *testing.T, sess *helpers.SessionManager, gate ProfileGate) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ResolveSession(sess), AccessControl(gate, nil))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/sign-in", ok)
	r.GET("/dashboard", ok)
	r.GET("/setup", ok)
	return r
}

func doPage(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessControlRedirectsAnonymous(t *testing.T) {
	sess := &helpers.SessionManager{Secret: []byte("test-secret"), TTL: time.Hour}
	r := accessRouter(t, sess, &fakeGate{})

	w := doPage(r, "/dashboard", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/sign-in?callbackUrl=%2Fdashboard" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestAccessControlAllowsPublicWithoutGateCall(t *testing.T) {
	sess := &helpers.SessionManager{Secret: []byte("test-secret"), TTL: time.Hour}
	gate := &fakeGate{}
	r := accessRouter(t, sess, gate)

	w := doPage(r, "/sign-in", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gate.calls != 0 {
		t.Fatalf("expected no gate calls, got %d", gate.calls)
	}
}

func TestAccessControlSendsIncompleteToSetup(t *testing.T) {
	sess := &helpers.SessionManager{Secret: []byte("test-secret"), TTL: time.Hour}
	token, _, err := sess.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := accessRouter(t, sess, &fakeGate{complete: false})

	w := doPage(r, "/dashboard", token)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/setup" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestAccessControlAllowsCompleteProfile(t *testing.T) {
	sess := &helpers.SessionManager{Secret: []byte("test-secret"), TTL: time.Hour}
	token, _, err := sess.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := accessRouter(t, sess, &fakeGate{complete: true})

	if w := doPage(r, "/dashboard", token); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doPage(r, "/setup", token); w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect away from setup, got %q", w.Header().Get("Location"))
	}
}

func TestAccessControlGateErrorDenies(t *testing.T) {
	sess := &helpers.SessionManager{Secret: []byte("test-secret"), TTL: time.Hour}
	token, _, err := sess.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	gate := &fakeGate{complete: true, err: errors.New("store down")}
	r := accessRouter(t, sess, gate)

	w := doPage(r, "/dashboard", token)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 on gate error, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/setup" {
		t.Fatalf("expected /setup, got %q", loc)
	}
}

func TestAccessControlInvalidTokenTreatedAsAnonymous(t *testing.T) {
	sess := &helpers.SessionManager{Secret: []byte("test-secret"), TTL: time.Hour}
	r := accessRouter(t, sess, &fakeGate{complete: true})

	w := doPage(r, "/dashboard", "tampered-token")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/sign-in?callbackUrl=%2Fdashboard" {
		t.Fatalf("unexpected location %q", loc)
	}
}
