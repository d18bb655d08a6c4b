package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models"
)

func TestWipe_ResetsRecordsKeepsSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addCourse(t, "101", "50000")
	f.admit(t, validStudent())
	book := f.addBook(t, "101", "2")
	require.NotZero(t, book.ID)

	svc := NewMaintenanceService(f.store.maintenanceStore(), zerolog.Nop())
	require.NoError(t, svc.Wipe(ctx))

	courses, err := f.courses.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)

	books, err := f.library.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	assert.Equal(t, "system", f.store.settings[models.SettingTheme])

	// Identity sequences start over
	f.addCourse(t, "101", "50000")
	assert.EqualValues(t, 1, f.admit(t, validStudent()))
}
