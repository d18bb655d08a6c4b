package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campusrecords/internal/app/models"
	appRepos "github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

// Admin describes the account created on first start
type Admin struct {
	Username string
	Password string
	Email    string
}

// CreateDefaultData makes sure the admin account and every preference row
// exist. It never overwrites existing rows.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, admin Admin, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin account, settings)...")
	var finalErr error // collects errors without stopping the process

	// --- Default admin user --- //
	_, err := repos.UserRepository.GetByUsername(ctx, admin.Username)
	switch {
	case err == nil:
		lgr.Info().Str("username", admin.Username).Msg("Admin user already exists, skipping creation")
	case !errors.Is(err, apperrors.ErrUserNotFound):
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	case admin.Password == "":
		lgr.Warn().Str("username", admin.Username).Msg("Admin user missing and no admin password configured, skipping creation")
	default:
		hash, err := auth.HashPassword(admin.Password)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
			break
		}
		user := &appModels.User{Username: admin.Username, Password: hash, Email: admin.Email}
		if err := repos.UserRepository.Create(ctx, user); err != nil && !errors.Is(err, apperrors.ErrUsernameTaken) {
			lgr.Error().Err(err).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("username", admin.Username).Msg("Default admin user created successfully")
		}
	}

	// --- Default settings --- //
	current, err := repos.SettingsRepository.All(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error reading settings")
		return errors.Join(finalErr, err)
	}
	defaults := appModels.DefaultPreferences()
	missing := map[string]string{}
	for key, value := range map[string]string{
		appModels.SettingTheme:      defaults.Theme,
		appModels.SettingDefaultTab: defaults.DefaultTab,
	} {
		if _, ok := current[key]; !ok {
			missing[key] = value
		}
	}
	if err := repos.SettingsRepository.SetMany(ctx, missing); err != nil {
		lgr.Error().Err(err).Msg("Error creating default settings")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
