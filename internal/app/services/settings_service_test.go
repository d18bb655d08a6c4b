package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

func TestSettings_LoadAndUpdate(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	prefs, err := LoadPreferences(ctx, store.settingsStore())
	require.NoError(t, err)
	assert.Equal(t, "system", prefs.Theme)
	assert.Equal(t, "Accounts", prefs.DefaultTab)

	svc := NewSettingsService(store.settingsStore(), prefs, zerolog.Nop())

	updated, err := svc.Update(ctx, dto.UpdateSettingsRequest{Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	assert.Equal(t, "Accounts", updated.DefaultTab)

	// The shared record sees the change
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, "dark", store.settings["theme"])

	_, err = svc.Update(ctx, dto.UpdateSettingsRequest{DefaultTab: "Library"})
	require.NoError(t, err)
	assert.Equal(t, "Library", svc.Get(ctx).DefaultTab)
}

func TestSettings_RejectsUnknownValues(t *testing.T) {
	store := newMemStore()
	prefs, err := LoadPreferences(context.Background(), store.settingsStore())
	require.NoError(t, err)
	svc := NewSettingsService(store.settingsStore(), prefs, zerolog.Nop())

	_, err = svc.Update(context.Background(), dto.UpdateSettingsRequest{Theme: "neon"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Update(context.Background(), dto.UpdateSettingsRequest{DefaultTab: "Reports"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.Equal(t, "system", svc.Get(context.Background()).Theme)
}

// brokenSettings refuses every write
type brokenSettings struct {
	SettingsStore
}

func (brokenSettings) SetMany(context.Context, map[string]string) error {
	return errors.New("settings table unavailable")
}

func TestSettings_FailedWriteChangesNothing(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	prefs, err := LoadPreferences(ctx, store.settingsStore())
	require.NoError(t, err)

	svc := NewSettingsService(brokenSettings{store.settingsStore()}, prefs, zerolog.Nop())
	_, err = svc.Update(ctx, dto.UpdateSettingsRequest{Theme: "dark", DefaultTab: "Library"})
	require.Error(t, err)

	assert.Equal(t, "system", prefs.Theme)
	assert.Equal(t, "Accounts", prefs.DefaultTab)
	assert.Equal(t, "system", store.settings["theme"])
	assert.Equal(t, "Accounts", store.settings["default_tab"])
}

func TestSettings_UpdateWritesBothKeys(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	prefs, err := LoadPreferences(ctx, store.settingsStore())
	require.NoError(t, err)

	svc := NewSettingsService(store.settingsStore(), prefs, zerolog.Nop())
	got, err := svc.Update(ctx, dto.UpdateSettingsRequest{Theme: "light", DefaultTab: "Library"})
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, "Library", got.DefaultTab)
	assert.Equal(t, "light", store.settings["theme"])
	assert.Equal(t, "Library", store.settings["default_tab"])
}

func TestLoadPreferences_MissingKeysKeepDefaults(t *testing.T) {
	store := newMemStore()
	delete(store.settings, "default_tab")
	store.settings["theme"] = "light"

	prefs, err := LoadPreferences(context.Background(), store.settingsStore())
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.Equal(t, "Accounts", prefs.DefaultTab)
}
