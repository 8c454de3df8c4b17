package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tourism/internal/auth"
	"tourism/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

const (
	// SessionTokenCookie holds the bearer token for page loads.
	SessionTokenCookie = "session_token"
	// SessionUserCookie holds the base64url JSON account projection.
	SessionUserCookie = "session_user"
)

// ViewGuard protects HTML views using the client-held session cookies. It is
// a navigation aid only: the token is not verified here, every API call the
// page makes still goes through RequireRole.
func ViewGuard(policy auth.Policy, loginPath string) gin.HandlerFunc {
	if strings.TrimSpace(loginPath) == "" {
		loginPath = "/login"
	}
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			redirectToLogin(c, loginPath)
			return
		}
		role, valid := auth.ParseRole(user.Role)
		if !valid || !policy.Allows(role) {
			redirectToLogin(c, loginPath)
			return
		}
		c.Next()
	}
}

// sessionUser returns the projection stored in the cookies when both session
// cookies are present and well formed.
func sessionUser(c *gin.Context) (*dto.AccountSummary, bool) {
	token, err := c.Cookie(SessionTokenCookie)
	if err != nil || strings.TrimSpace(token) == "" {
		return nil, false
	}
	encoded, err := c.Cookie(SessionUserCookie)
	if err != nil || encoded == "" {
		return nil, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, false
	}
	var user dto.AccountSummary
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func redirectToLogin(c *gin.Context, loginPath string) {
	target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

func setSessionCookies(c *gin.Context, resp *dto.AuthResponse) {
	payload, err := json.Marshal(resp.Account)
	if err != nil {
		return
	}
	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	secure := c.Request.TLS != nil

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionTokenCookie, resp.Token, maxAge, "/", "", secure, true)
	c.SetCookie(SessionUserCookie, base64.RawURLEncoding.EncodeToString(payload), maxAge, "/", "", secure, false)
}

func clearSessionCookies(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(SessionUserCookie, "", -1, "/", "", secure, false)
}
