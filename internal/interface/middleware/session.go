package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnai/learnai-api/pkg/helpers"
	"github.com/learnai/learnai-api/pkg/response"
)

const CtxUserIDKey = "userID"

// ResolveSession reads the session cookie, verifies the token and, when
// valid, sets the user id in the Gin context. It never aborts; absent or
// invalid sessions just leave the context untouched.
func ResolveSession(sess *helpers.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err == nil && token != "" {
			if uid, rerr := sess.Resolve(token); rerr == nil {
				c.Set(CtxUserIDKey, uid)
			}
		}
		c.Next()
	}
}

// RequireSession aborts with 401 unless a valid session token is presented.
func RequireSession(sess *helpers.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		uid, err := sess.Resolve(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid session token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}
