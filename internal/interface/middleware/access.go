package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Decision is the outcome of evaluating a page request against the session
// and profile state. The closed set keeps redirect logic out of handlers and
// makes the table testable on its own.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionSignIn
	DecisionHome
	DecisionSetup
)

// Page paths referenced by the decision table.
const (
	PathHome      = "/"
	PathSignIn    = "/sign-in"
	PathSignUp    = "/sign-up"
	PathSetup     = "/setup"
	PathDashboard = "/dashboard"
)

// publicPrefixes are reachable without a session: the auth pages, the
// registration endpoint and the OAuth surface.
var publicPrefixes = []string{
	PathSignIn,
	PathSignUp,
	"/api/auth",
}

func isPublicPath(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isAuthPage(path string) bool {
	return strings.HasPrefix(path, PathSignIn) || strings.HasPrefix(path, PathSignUp)
}

// Decide evaluates the routing table for one request. Evaluation order:
//
//  1. public paths are reachable without checks, except that a signed-in
//     user on an auth page is sent home
//  2. no session on a protected path redirects to sign-in
//  3. a signed-in user without a completed profile is held on the setup
//     page: the setup page itself is allowed, everything else redirects
//     to it
//  4. a signed-in user with a completed profile is redirected away from
//     setup so the wizard cannot be re-run
func Decide(path string, hasSession, profileComplete bool) Decision {
	if isPublicPath(path) {
		if hasSession && isAuthPage(path) {
			return DecisionHome
		}
		return DecisionAllow
	}
	if !hasSession {
		return DecisionSignIn
	}
	if path == PathSetup {
		if profileComplete {
			return DecisionHome
		}
		return DecisionAllow
	}
	if !profileComplete {
		return DecisionSetup
	}
	return DecisionAllow
}

// ProfileGate answers whether a user finished the setup wizard.
type ProfileGate interface {
	HasCompletedProfile(ctx context.Context, userID string) (bool, error)
}

// AccessControl is the route access controller for page routes. It expects
// ResolveSession to have run first, queries the profile gate when the
// decision needs it and translates the Decision into a redirect or
// pass-through. The decision is evaluated on every request; nothing is
// cached.
//
// A gate lookup failure counts as "profile not complete": the user lands on
// the setup page instead of the protected one. Denying on error keeps a
// store outage from opening protected pages.
func AccessControl(gate ProfileGate, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		userID := c.GetString(CtxUserIDKey)
		hasSession := userID != ""

		profileComplete := false
		if hasSession && !isPublicPath(path) {
			complete, err := gate.HasCompletedProfile(c.Request.Context(), userID)
			if err != nil {
				if logger != nil {
					logger.WithError(err).WithField("user_id", userID).Error("profile gate check failed, denying")
				}
				complete = false
			}
			profileComplete = complete
		}

		switch Decide(path, hasSession, profileComplete) {
		case DecisionSignIn:
			c.Redirect(http.StatusFound, PathSignIn+"?callbackUrl="+url.QueryEscape(path))
			c.Abort()
		case DecisionHome:
			c.Redirect(http.StatusFound, PathDashboard)
			c.Abort()
		case DecisionSetup:
			c.Redirect(http.StatusFound, PathSetup)
			c.Abort()
		default:
			c.Next()
		}
	}
}
