package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/studentrecords/internal/app/auth"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories/memory"
	pkgauth "github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/sessionstore"
	"github.com/yigit/studentrecords/internal/web"
)

// flakyStore is a memory store that can be switched off like a lost redis connection
type flakyStore struct {
	*sessionstore.MemoryStore
	down bool
}

func (s *flakyStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	if s.down {
		return false, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	}
	return s.MemoryStore.IsRevoked(ctx, id)
}

type authFixture struct {
	router *gin.Engine
	store  *flakyStore
	token  string
}

func newAuthFixture(t *testing.T, cookie CookieConfig) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewRepositories(memory.NewStore())
	user := &models.User{Username: "staff", Password: "hash", IsActive: true}
	require.NoError(t, repos.UserRepository.Create(context.Background(), user))

	store := &flakyStore{MemoryStore: sessionstore.NewMemoryStore()}
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:   "test-secret",
		SessionExp:  time.Hour,
		TokenIssuer: "studentrecords",
	})
	sessions := appauth.NewSessionManager(jwtService, store, repos.UserRepository)
	session, err := sessions.Login(context.Background(), user)
	require.NoError(t, err)

	templates, err := web.Templates()
	require.NoError(t, err)

	auth := NewAuthMiddleware(sessions, cookie)
	router := gin.New()
	router.SetHTMLTemplate(templates)
	site := router.Group("/", auth.LoadUser())
	site.GET("/students/", auth.LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	site.POST("/students/add/", auth.LoginRequired(), func(c *gin.Context) {
		AddFlash(c, "Student added successfully!")
		c.Redirect(http.StatusFound, "/students/")
	})

	return &authFixture{router: router, store: store, token: session.Token}
}

func (f *authFixture) serve(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoadUserValidSession(t *testing.T) {
	f := newAuthFixture(t, CookieConfig{Name: "sessionid"})

	w := f.serve(http.MethodGet, "/students/", f.token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "staff", w.Body.String())
	assert.Nil(t, findCookie(w, "sessionid"))
}

func TestLoadUserClearsUnusableCookie(t *testing.T) {
	f := newAuthFixture(t, CookieConfig{Name: "sessionid"})

	w := f.serve(http.MethodGet, "/students/", "garbage")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fstudents%2F", w.Header().Get("Location"))

	cleared := findCookie(w, "sessionid")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestLoadUserKeepsCookieWhenStoreIsDown(t *testing.T) {
	f := newAuthFixture(t, CookieConfig{Name: "sessionid"})
	f.store.down = true

	w := f.serve(http.MethodGet, "/students/", f.token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Nil(t, findCookie(w, "sessionid"))

	// the same cookie works again once the store is back
	f.store.down = false
	w = f.serve(http.MethodGet, "/students/", f.token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFlashCookieFollowsSecureSetting(t *testing.T) {
	for _, secure := range []bool{false, true} {
		f := newAuthFixture(t, CookieConfig{Name: "sessionid", Secure: secure})

		w := f.serve(http.MethodPost, "/students/add/", f.token)
		require.Equal(t, http.StatusFound, w.Code)

		flash := findCookie(w, FlashCookieName)
		require.NotNil(t, flash)
		assert.Equal(t, secure, flash.Secure)
		assert.True(t, flash.HttpOnly)
	}
}
