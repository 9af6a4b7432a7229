package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/repositories/memory"
	"github.com/yigit/studentrecords/internal/app/services"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	svc := services.NewServices(repos, bcrypt.MinCost, zerolog.Nop())
	opts := Options{
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "change-me-please",
		DemoCourses:   true,
	}

	require.NoError(t, CreateDefaultData(ctx, svc, opts, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, svc, opts, zerolog.Nop()))

	courses, err := repos.CourseRepository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(DemoCourses)), courses)

	admin, err := repos.UserRepository.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsActive)
}

func TestCreateDefaultDataSkipsWithoutOptions(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	svc := services.NewServices(repos, bcrypt.MinCost, zerolog.Nop())

	require.NoError(t, CreateDefaultData(ctx, svc, Options{}, zerolog.Nop()))

	count, err := repos.CourseRepository.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	exists, err := repos.UserRepository.UsernameExists(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, exists)
}
