package seed

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/migrations"
	"github.com/yigit/campusrecords/internal/app/models"
	appRepos "github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/db"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	url := os.Getenv("CAMPUSRECORDS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CAMPUSRECORDS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, migrations.NewMigrator(pool).Migrate(ctx))

	repos := appRepos.NewRepositories(db.NewFromPool(pool))
	admin := Admin{Username: "seed-admin", Password: "s3cret!", Email: "seed@campus.local"}
	_ = repos.UserRepository.Delete(ctx, admin.Username)
	t.Cleanup(func() { _ = repos.UserRepository.Delete(context.Background(), admin.Username) })

	auth.BcryptCost = 4
	require.NoError(t, CreateDefaultData(ctx, repos, admin, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, admin, zerolog.Nop()))

	user, err := repos.UserRepository.GetByUsername(ctx, admin.Username)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.Password, admin.Password))

	settings, err := repos.SettingsRepository.All(ctx)
	require.NoError(t, err)
	assert.Contains(t, settings, models.SettingTheme)
	assert.Contains(t, settings, models.SettingDefaultTab)
}
