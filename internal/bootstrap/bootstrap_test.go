package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/pkg/sessionstore"
	"golang.org/x/crypto/bcrypt"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.Session.Secret = "test-secret"
	cfg.Session.Lifetime = "1h"
	cfg.Session.CookieName = "sessionid"
	cfg.Session.Store = config.StoreMemory
	cfg.Session.BcryptCost = bcrypt.MinCost
	cfg.Seed.AdminUsername = "admin"
	cfg.Seed.AdminPassword = "change-me-please"
	cfg.Seed.DemoCourses = true
	return cfg
}

func TestMemoryStackServesPages(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	lgr := zerolog.Nop()

	infra, err := SetupInfrastructure(ctx, cfg, lgr)
	require.NoError(t, err)
	defer infra.Close()
	assert.Nil(t, infra.Database)
	assert.Nil(t, infra.Redis)

	deps, err := BuildDependencies(cfg, infra, lgr)
	require.NoError(t, err)
	SeedData(ctx, cfg, deps, lgr)

	router, err := SetupRouter(cfg, deps, lgr)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fcourses%2F", w.Header().Get("Location"))

	count, err := deps.Repos.CourseRepository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.Session.Store = config.StoreRedis
	cfg.Redis.Addr = mr.Addr()

	infra, err := SetupInfrastructure(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer infra.Close()
	require.NotNil(t, infra.Redis)

	deps, err := BuildDependencies(cfg, infra, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &sessionstore.RedisStore{}, deps.SessionStore)

	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mr.Close()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
