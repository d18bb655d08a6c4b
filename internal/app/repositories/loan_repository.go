package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/db"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/dberrors"
	"github.com/yigit/campusrecords/internal/pkg/logger"
)

// LoanRepository handles the books_lended table together with the stock
// movements that accompany each loan.
type LoanRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(database *db.PostgresDB) *LoanRepository {
	return &LoanRepository{
		db: database,
		sb: psql,
	}
}

func mapLoanWriteError(err error) error {
	if dberrors.IsForeignKeyError(err) {
		return apperrors.NewConflictError(fmt.Sprintf("Loan references a missing student or book: %v", err))
	}
	if dberrors.IsConstraintViolation(err) || dberrors.IsDataException(err) {
		return apperrors.NewConflictError(fmt.Sprintf("Loan violates a store constraint: %v", err))
	}
	return err
}

func (r *LoanRepository) insert(ctx context.Context, q db.DBTX, enrollmentNo, bookID int64) error {
	sql, args, err := r.sb.Insert("books_lended").
		Columns("enrollment_no", "book_id").
		Values(enrollmentNo, bookID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create loan query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapLoanWriteError(err)
	}
	return nil
}

// Lend records one loan per book and takes one copy of each off the shelf.
// A book with no copies left aborts the whole lend.
func (r *LoanRepository) Lend(ctx context.Context, enrollmentNo int64, bookIDs []int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, bookID := range bookIDs {
			sql, args, err := r.sb.Update("books").
				Set("quantity", squirrel.Expr("quantity - 1")).
				Where(squirrel.Eq{"book_id": bookID}).
				Where(squirrel.Gt{"quantity": 0}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build take copy query: %w", err)
			}
			tag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				return fmt.Errorf("error taking copy of book %d: %w", bookID, err)
			}
			if tag.RowsAffected() == 0 {
				return apperrors.ErrBookUnavailable.WithDetails(map[string]interface{}{"bookId": bookID})
			}

			if err := r.insert(ctx, tx, enrollmentNo, bookID); err != nil {
				logger.Error().Err(err).Int64("enrollmentNo", enrollmentNo).Int64("bookId", bookID).Msg("Error recording loan")
				return err
			}
		}
		return nil
	})
}

// Return deletes one loan row per book and puts the copy back on the shelf.
// A book that is not on loan to the student aborts the whole return.
func (r *LoanRepository) Return(ctx context.Context, enrollmentNo int64, bookIDs []int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, bookID := range bookIDs {
			sql, args, err := r.sb.Delete("books_lended").
				Where("id = (SELECT id FROM books_lended WHERE enrollment_no = ? AND book_id = ? ORDER BY id LIMIT 1)",
					enrollmentNo, bookID).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build delete loan query: %w", err)
			}
			tag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				return fmt.Errorf("error deleting loan: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return apperrors.ErrLoanNotFound.WithDetails(map[string]interface{}{"bookId": bookID})
			}

			sql, args, err = r.sb.Update("books").
				Set("quantity", squirrel.Expr("quantity + 1")).
				Where(squirrel.Eq{"book_id": bookID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build restock query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error restocking book %d: %w", bookID, err)
			}
		}
		return nil
	})
}

// ListForStudent returns the books currently held by a student, one entry
// per copy.
func (r *LoanRepository) ListForStudent(ctx context.Context, enrollmentNo int64) ([]models.LoanedBook, error) {
	sql, args, err := r.sb.Select("l.id", "b.book_id", "b.name", "b.publisher", "l.lent_at").
		From("books_lended l").
		Join("books b ON b.book_id = l.book_id").
		Where(squirrel.Eq{"l.enrollment_no": enrollmentNo}).
		OrderBy("l.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student loans query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student loans: %w", err)
	}
	defer rows.Close()

	loans := []models.LoanedBook{}
	for rows.Next() {
		var l models.LoanedBook
		if err := rows.Scan(&l.LoanID, &l.BookID, &l.Name, &l.Publisher, &l.LentAt); err != nil {
			return nil, fmt.Errorf("error scanning loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// List returns every loan row
func (r *LoanRepository) List(ctx context.Context) ([]models.Loan, error) {
	sql, args, err := r.sb.Select("id", "enrollment_no", "book_id", "lent_at").
		From("books_lended").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list loans query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		var l models.Loan
		if err := rows.Scan(&l.ID, &l.EnrollmentNo, &l.BookID, &l.LentAt); err != nil {
			return nil, fmt.Errorf("error scanning loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// CreateBatch inserts loan rows as they are, without touching stock. It is
// used to restore an exported workbook whose quantities already account for
// the copies on loan.
func (r *LoanRepository) CreateBatch(ctx context.Context, loans []models.Loan) (int, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i, l := range loans {
			if err := r.insert(ctx, tx, l.EnrollmentNo, l.BookID); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(loans), nil
}
