package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

// SettingsService exposes the shared preferences
type SettingsService interface {
	Get(ctx context.Context) models.Preferences
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (models.Preferences, error)
}

type settingsServiceImpl struct {
	store    SettingsStore
	prefs    *models.Preferences
	mu       sync.RWMutex
	validate *validator.Validate
	logger   zerolog.Logger
}

// LoadPreferences reads the settings table into a Preferences record,
// keeping defaults for keys that are missing.
func LoadPreferences(ctx context.Context, store SettingsStore) (*models.Preferences, error) {
	values, err := store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}

	prefs := models.DefaultPreferences()
	if v, ok := values[models.SettingTheme]; ok {
		prefs.Theme = v
	}
	if v, ok := values[models.SettingDefaultTab]; ok {
		prefs.DefaultTab = v
	}
	return &prefs, nil
}

// NewSettingsService wraps the preferences loaded at start. Updates are
// written through to the store and to prefs.
func NewSettingsService(store SettingsStore, prefs *models.Preferences, logger zerolog.Logger) SettingsService {
	return &settingsServiceImpl{
		store:    store,
		prefs:    prefs,
		validate: validator.New(),
		logger:   logger.With().Str("service", "settings").Logger(),
	}
}

func (s *settingsServiceImpl) Get(_ context.Context) models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.prefs
}

func (s *settingsServiceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) (models.Preferences, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Preferences{}, apperrors.ErrInvalidSetting.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		})
	}

	changes := make(map[string]string, 2)
	if req.Theme != "" {
		changes[models.SettingTheme] = req.Theme
	}
	if req.DefaultTab != "" {
		changes[models.SettingDefaultTab] = req.DefaultTab
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetMany(ctx, changes); err != nil {
		return models.Preferences{}, err
	}
	if req.Theme != "" {
		s.prefs.Theme = req.Theme
	}
	if req.DefaultTab != "" {
		s.prefs.DefaultTab = req.DefaultTab
	}

	s.logger.Info().Str("theme", s.prefs.Theme).Str("defaultTab", s.prefs.DefaultTab).Msg("Settings updated")
	return *s.prefs, nil
}
