package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// FeeService handles the fee ledger
type FeeService interface {
	Summary(ctx context.Context, enrollmentNo int64) (*dto.FeeSummary, error)
	Deposit(ctx context.Context, enrollmentNo int64, req dto.DepositRequest) (*dto.FeeReceipt, error)
}

type feeServiceImpl struct {
	students StudentStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewFeeService creates a new FeeService
func NewFeeService(students StudentStore, logger zerolog.Logger) FeeService {
	return &feeServiceImpl{
		students: students,
		logger:   logger.With().Str("service", "fee").Logger(),
		now:      time.Now,
	}
}

func (s *feeServiceImpl) Summary(ctx context.Context, enrollmentNo int64) (*dto.FeeSummary, error) {
	account, err := s.students.FeeAccount(ctx, enrollmentNo)
	if err != nil {
		return nil, err
	}
	return &dto.FeeSummary{
		EnrollmentNo: account.EnrollmentNo,
		StudentName:  account.StudentName,
		CourseName:   account.CourseName,
		TotalFee:     account.TotalFee,
		FeeDeposited: account.FeeDeposited,
		Remaining:    account.Remaining(),
	}, nil
}

// Deposit adds the amount to the ledger when it fits within the remaining
// balance and returns a receipt for it.
func (s *feeServiceImpl) Deposit(ctx context.Context, enrollmentNo int64, req dto.DepositRequest) (*dto.FeeReceipt, error) {
	amount, ok := validation.ParseWhole(strings.TrimSpace(req.Amount))
	if !ok || amount <= 0 {
		return nil, fieldError("amount", "Add a valid amount.")
	}

	account, err := s.students.FeeAccount(ctx, enrollmentNo)
	if err != nil {
		return nil, err
	}
	if account.FullyPaid() {
		return nil, apperrors.ErrFeeFullyPaid
	}
	if amount > account.Remaining() {
		return nil, apperrors.ErrFeeExceedsBalance.WithDetails(map[string]interface{}{
			"remaining": account.Remaining(),
		})
	}

	updated, err := s.students.AddFeeDeposit(ctx, enrollmentNo, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("enrollmentNo", enrollmentNo).
		Int64("amount", amount).
		Int64("remaining", updated.Remaining()).
		Msg("Fee deposited")

	return &dto.FeeReceipt{
		EnrollmentNo: updated.EnrollmentNo,
		StudentName:  updated.StudentName,
		Address:      updated.Address,
		PhoneNo:      updated.PhoneNo,
		CourseID:     updated.CourseID,
		CourseName:   updated.CourseName,
		CourseYear:   updated.CourseYear,
		Date:         s.now(),
		TotalFee:     updated.TotalFee,
		Amount:       amount,
		FeeDeposited: updated.FeeDeposited,
		Remaining:    updated.Remaining(),
	}, nil
}
