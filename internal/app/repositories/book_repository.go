package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/db"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/dberrors"
	"github.com/yigit/campusrecords/internal/pkg/logger"
)

var bookColumns = []string{"book_id", "name", "quantity", "course_id", "isbn", "publisher"}

// BookRepository handles book database operations
type BookRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewBookRepository creates a new BookRepository
func NewBookRepository(database *db.PostgresDB) *BookRepository {
	return &BookRepository{
		db: database,
		sb: psql,
	}
}

func scanBook(row pgx.Row, b *models.Book) error {
	return row.Scan(&b.ID, &b.Name, &b.Quantity, &b.CourseID, &b.ISBN, &b.Publisher)
}

func (r *BookRepository) insert(ctx context.Context, q db.DBTX, b *models.Book) error {
	sql, args, err := r.sb.Insert("books").
		Columns("name", "quantity", "course_id", "isbn", "publisher").
		Values(b.Name, b.Quantity, b.CourseID, b.ISBN, b.Publisher).
		Suffix("RETURNING book_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create book query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&b.ID); err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewConflictError("Book quantity cannot be negative.")
		}
		if dberrors.IsConstraintViolation(err) || dberrors.IsDataException(err) {
			return apperrors.NewConflictError(fmt.Sprintf("Book violates a store constraint: %v", err))
		}
		return fmt.Errorf("error creating book: %w", err)
	}
	return nil
}

// Create inserts a book and fills in its assigned ID
func (r *BookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.insert(ctx, r.db.Pool, b); err != nil {
		logger.Error().Err(err).Msg("Error executing create book query")
		return err
	}
	return nil
}

// CreateBatch inserts every book in one transaction
func (r *BookRepository) CreateBatch(ctx context.Context, books []models.Book) (int, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := range books {
			if err := r.insert(ctx, tx, &books[i]); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(books), nil
}

// GetByID retrieves a book
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	sql, args, err := r.sb.Select(bookColumns...).
		From("books").
		Where(squirrel.Eq{"book_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get book query: %w", err)
	}

	var b models.Book
	if err := scanBook(r.db.Pool.QueryRow(ctx, sql, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, fmt.Errorf("error retrieving book: %w", err)
	}
	return &b, nil
}

func (r *BookRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.Book, error) {
	q := r.sb.Select(bookColumns...).From("books").OrderBy("book_id")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list books query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("error scanning book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// List returns every book
func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	return r.list(ctx, nil)
}

// ListLendable returns the in-stock books of a course
func (r *BookRepository) ListLendable(ctx context.Context, courseID int64) ([]models.Book, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"course_id": courseID},
		squirrel.Gt{"quantity": 0},
	})
}

// AdjustStock adds delta to the available quantity, flooring the result at
// zero, and returns the updated book.
func (r *BookRepository) AdjustStock(ctx context.Context, id int64, delta int64) (*models.Book, error) {
	sql, args, err := r.sb.Update("books").
		Set("quantity", squirrel.Expr("GREATEST(quantity + ?, 0)", delta)).
		Where(squirrel.Eq{"book_id": id}).
		Suffix("RETURNING book_id, name, quantity, course_id, isbn, publisher").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update stock query: %w", err)
	}

	var b models.Book
	if err := scanBook(r.db.Pool.QueryRow(ctx, sql, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookNotFound
		}
		if dberrors.IsDataException(err) {
			return nil, apperrors.NewConflictError("Book quantity is out of range.")
		}
		logger.Error().Err(err).Int64("bookId", id).Msg("Error executing update stock query")
		return nil, fmt.Errorf("error updating stock: %w", err)
	}
	return &b, nil
}

// DeleteWithLoans removes the book and every loan of it as one unit and
// reports how many loans went with it.
func (r *BookRepository) DeleteWithLoans(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("books_lended").Where(squirrel.Eq{"book_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete book loans query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting book loans: %w", err)
		}
		removed = tag.RowsAffected()

		sql, args, err = r.sb.Delete("books").Where(squirrel.Eq{"book_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete book query: %w", err)
		}
		tag, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
