package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

func TestDeposit_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		deposited string
		amount    string
		wantErr   error
		wantTotal int64
	}{
		{"within balance", "", "4000", nil, 4000},
		{"exactly remaining", "1000", "9000", nil, 10000},
		{"one over remaining", "1000", "9001", apperrors.ErrFeeExceedsBalance, 1000},
		{"more than total", "", "10001", apperrors.ErrFeeExceedsBalance, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addCourse(t, "101", "10000")
			id := f.admit(t, validStudent())
			ctx := context.Background()

			if tt.deposited != "" {
				_, err := f.fees.Deposit(ctx, id, dto.DepositRequest{Amount: tt.deposited})
				require.NoError(t, err)
			}

			receipt, err := f.fees.Deposit(ctx, id, dto.DepositRequest{Amount: tt.amount})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, receipt)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTotal, receipt.FeeDeposited)
				assert.Equal(t, int64(10000)-tt.wantTotal, receipt.Remaining)
			}

			summary, err := f.fees.Summary(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, summary.FeeDeposited)
		})
	}
}

func TestDeposit_Receipt(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "101", "45000")
	id := f.admit(t, validStudent())

	receipt, err := f.fees.Deposit(context.Background(), id, dto.DepositRequest{Amount: " 5000 "})
	require.NoError(t, err)
	assert.Equal(t, id, receipt.EnrollmentNo)
	assert.Equal(t, "Asha Rao", receipt.StudentName)
	assert.Equal(t, "12 Lake Road", receipt.Address)
	assert.Equal(t, int64(101), receipt.CourseID)
	assert.Equal(t, "Course 101", receipt.CourseName)
	assert.Equal(t, 3, receipt.CourseYear)
	assert.Equal(t, fixedNow, receipt.Date)
	assert.Equal(t, int64(45000), receipt.TotalFee)
	assert.Equal(t, int64(5000), receipt.Amount)
	assert.Equal(t, int64(5000), receipt.FeeDeposited)
	assert.Equal(t, int64(40000), receipt.Remaining)
}

func TestDeposit_FullyPaid(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "101", "500")
	id := f.admit(t, validStudent())

	_, err := f.fees.Deposit(context.Background(), id, dto.DepositRequest{Amount: "500"})
	require.NoError(t, err)

	_, err = f.fees.Deposit(context.Background(), id, dto.DepositRequest{Amount: "1"})
	assert.ErrorIs(t, err, apperrors.ErrFeeFullyPaid)
}

func TestDeposit_InvalidAmount(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "101", "500")
	id := f.admit(t, validStudent())

	for _, amount := range []string{"", "abc", "-5", "0", "12.5"} {
		_, err := f.fees.Deposit(context.Background(), id, dto.DepositRequest{Amount: amount})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, amount)
		assert.EqualError(t, err, "Add a valid amount.", amount)
	}

	summary, err := f.fees.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.FeeDeposited)
}

func TestDeposit_UnknownStudent(t *testing.T) {
	f := newFixture(t)
	_, err := f.fees.Deposit(context.Background(), 7, dto.DepositRequest{Amount: "10"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
