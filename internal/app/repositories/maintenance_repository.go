package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/campusrecords/internal/db"
	"github.com/yigit/campusrecords/internal/pkg/logger"
)

// MaintenanceRepository runs whole-store operations
type MaintenanceRepository struct {
	db *db.PostgresDB
}

// NewMaintenanceRepository creates a new MaintenanceRepository
func NewMaintenanceRepository(database *db.PostgresDB) *MaintenanceRepository {
	return &MaintenanceRepository{db: database}
}

// Wipe removes every student, course, book and loan and resets the id
// sequences. Users and settings are kept.
func (r *MaintenanceRepository) Wipe(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `TRUNCATE books_lended, student, books, courses RESTART IDENTITY`); err != nil {
		return fmt.Errorf("error wiping records: %w", err)
	}
	logger.Warn().Msg("All student, course, book and loan records wiped")
	return nil
}
