package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/studentrecords/internal/app/auth"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// LoginURL is where anonymous visitors are sent
const LoginURL = "/login/"

const (
	currentUserKey  = "currentUser"
	secureCookieKey = "secureCookie"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthMiddleware carries the session between requests in a cookie
type AuthMiddleware struct {
	sessions *appauth.SessionManager
	cookie   CookieConfig
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *appauth.SessionManager, cookie CookieConfig) *AuthMiddleware {
	if cookie.Name == "" {
		cookie.Name = "sessionid"
	}
	return &AuthMiddleware{
		sessions: sessions,
		cookie:   cookie,
	}
}

// LoadUser resolves the session cookie to the signed-in user, if any.
// Unusable cookies are cleared and the request continues anonymously.
// When the session cannot be checked at all the cookie is kept and the
// request ends with the error page.
// It also records the cookie policy that flash messages follow.
func (m *AuthMiddleware) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureCookieKey, m.cookie.Secure)

		token, err := c.Cookie(m.cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := m.sessions.Current(c.Request.Context(), token)
		switch {
		case err == nil:
		case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked, apperrors.ErrAccountDisabled):
			m.clearCookie(c)
			c.Next()
			return
		default:
			HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// LoginRequired redirects anonymous visitors to the login page, remembering where they were going
func (m *AuthMiddleware) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StartSession issues a session for user and stores it in the cookie
func (m *AuthMiddleware) StartSession(c *gin.Context, user *models.User) error {
	session, err := m.sessions.Login(c.Request.Context(), user)
	if err != nil {
		return err
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, session.Token, maxAge, "/", "", m.cookie.Secure, true)
	c.Set(currentUserKey, user)
	return nil
}

// EndSession revokes the current session and clears the cookie
func (m *AuthMiddleware) EndSession(c *gin.Context) error {
	token, _ := c.Cookie(m.cookie.Name)
	m.clearCookie(c)
	c.Set(currentUserKey, (*models.User)(nil))
	if token == "" {
		return nil
	}
	return m.sessions.Logout(c.Request.Context(), token)
}

func (m *AuthMiddleware) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// secureCookies reports whether cookies set on this request need the Secure flag
func secureCookies(c *gin.Context) bool {
	return c.GetBool(secureCookieKey)
}

// CurrentUser returns the signed-in user or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SafeRedirect returns next when it is a local path, otherwise fallback
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}

