package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/pkg/helpers"
	"github.com/learnai/learnai-api/pkg/response"
)

// OAuthHandler drives the Google sign-in flow: consent redirect with a
// Redis-backed state token, then callback exchange and account bridging.
type OAuthHandler struct {
	Provider   *application.GoogleProvider
	Federation *application.FederationService
	Profiles   *application.ProfileService
	Sessions   *helpers.SessionManager
	States     *helpers.OAuthStateStore
	Cookies    *helpers.CookieManager
	Logger     *logrus.Logger
}

func NewOAuthHandler(provider *application.GoogleProvider, federation *application.FederationService, profiles *application.ProfileService, sessions *helpers.SessionManager, states *helpers.OAuthStateStore, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *OAuthHandler {
	return &OAuthHandler{
		Provider:   provider,
		Federation: federation,
		Profiles:   profiles,
		Sessions:   sessions,
		States:     states,
		Cookies:    helpers.NewCookie(cookieDomain, cookieSecure),
		Logger:     logger,
	}
}

// Begin GET /api/auth/google?callbackUrl=/some/path
func (h *OAuthHandler) Begin(c *gin.Context) {
	if !h.Provider.Configured() {
		response.Error[any](c, http.StatusServiceUnavailable, "google sign-in is not configured", nil)
		return
	}
	state, err := h.States.Issue(c.Request.Context(), c.Query("callbackUrl"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("oauth state issue failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "sign in failed", nil)
		return
	}
	c.Redirect(http.StatusFound, h.Provider.AuthCodeURL(state))
}

// Callback GET /api/auth/google/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.Redirect(http.StatusFound, middleware.PathSignIn+"?error=oauth")
		return
	}

	callback, err := h.States.Consume(c.Request.Context(), c.Query("state"))
	if err != nil {
		// unknown, expired or replayed state
		c.Redirect(http.StatusFound, middleware.PathSignIn+"?error=state")
		return
	}

	profile, err := h.Provider.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("oauth exchange failed")
		}
		c.Redirect(http.StatusFound, middleware.PathSignIn+"?error=oauth")
		return
	}

	u, err := h.Federation.ResolveOrCreate(c.Request.Context(), profile)
	if err != nil {
		if errors.Is(err, application.ErrAccountNotLinked) {
			c.Redirect(http.StatusFound, middleware.PathSignIn+"?error=not_linked")
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("oauth account resolution failed")
		}
		c.Redirect(http.StatusFound, middleware.PathSignIn+"?error=oauth")
		return
	}

	token, exp, err := h.Sessions.Issue(u.ID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", u.ID).Error("session issue failed")
		}
		c.Redirect(http.StatusFound, middleware.PathSignIn+"?error=oauth")
		return
	}
	h.Cookies.SetSession(c, token, exp)

	complete, gerr := h.Profiles.HasCompletedProfile(c.Request.Context(), u.ID)
	if gerr != nil || !complete {
		c.Redirect(http.StatusFound, middleware.PathSetup)
		return
	}
	c.Redirect(http.StatusFound, callback)
}
