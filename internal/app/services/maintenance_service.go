package services

import (
	"context"

	"github.com/rs/zerolog"
)

// MaintenanceService runs whole-store operations
type MaintenanceService interface {
	Wipe(ctx context.Context) error
}

type maintenanceServiceImpl struct {
	store  MaintenanceStore
	logger zerolog.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(store MaintenanceStore, logger zerolog.Logger) MaintenanceService {
	return &maintenanceServiceImpl{store: store, logger: logger}
}

// Wipe erases every student, course, book and loan
func (s *maintenanceServiceImpl) Wipe(ctx context.Context) error {
	if err := s.store.Wipe(ctx); err != nil {
		return err
	}
	s.logger.Warn().Msg("Records wiped")
	return nil
}
