package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// LibraryService manages books, stock and loans
type LibraryService interface {
	AddBook(ctx context.Context, in dto.BookInput) (*models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	RemoveBook(ctx context.Context, bookID int64) (int64, error)
	UpdateStock(ctx context.Context, in dto.StockInput) (*models.Book, error)
	LendableBooks(ctx context.Context, enrollmentNo int64) ([]models.Book, error)
	Lend(ctx context.Context, enrollmentNo int64, req dto.LoanRequest) (*dto.LoanReceipt, error)
	Return(ctx context.Context, enrollmentNo int64, req dto.LoanRequest) (*dto.LoanReceipt, error)
	LoansFor(ctx context.Context, enrollmentNo int64) ([]models.LoanedBook, error)
}

type libraryServiceImpl struct {
	books    BookStore
	loans    LoanStore
	students StudentStore
	courses  CourseStore
	logger   zerolog.Logger
}

// NewLibraryService creates a new LibraryService
func NewLibraryService(books BookStore, loans LoanStore, students StudentStore, courses CourseStore, logger zerolog.Logger) LibraryService {
	return &libraryServiceImpl{
		books:    books,
		loans:    loans,
		students: students,
		courses:  courses,
		logger:   logger.With().Str("service", "library").Logger(),
	}
}

// checkBook validates the add-book form in order, stopping at the first problem
func checkBook(ctx context.Context, in dto.BookInput, courses CourseStore) (*models.Book, error) {
	name := strings.TrimSpace(in.Name)
	quantity := strings.TrimSpace(in.Quantity)
	course := strings.TrimSpace(in.CourseID)
	isbn := strings.TrimSpace(in.ISBN)
	publisher := strings.TrimSpace(in.Publisher)

	if name == "" {
		return nil, fieldError("name", "Please enter book name.")
	}

	if quantity == "" {
		return nil, fieldError("quantity", "Please enter quantity of books.")
	}
	qty, ok := validation.ParseWhole(quantity)
	if !ok {
		return nil, fieldError("quantity", "Invalid quantity of books, it must be a numeric value.")
	}

	if course == "" {
		return nil, fieldError("courseId", "Please select the course ID.")
	}

	if isbn == "" {
		return nil, fieldError("isbn", "Please enter ISBN number.")
	}
	if !validation.IsDigits(isbn) {
		return nil, fieldError("isbn", "Invalid ISBN, it must be a numeric value.")
	}
	if len(isbn) != validation.ISBNLength {
		return nil, fieldError("isbn", "Invalid ISBN, it must contain 13 digits.")
	}

	if publisher == "" {
		return nil, fieldError("publisher", "Please enter name of Publisher.")
	}

	courseID, ok := validation.ParseWhole(course)
	if !ok {
		return nil, fieldError("courseId", "Please select a course ID from the list.")
	}
	exists, err := courses.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error checking course: %w", err)
	}
	if !exists {
		return nil, fieldError("courseId", "Please select a course ID from the list.")
	}

	return &models.Book{
		Name:      name,
		Quantity:  int(qty),
		CourseID:  courseID,
		ISBN:      isbn,
		Publisher: publisher,
	}, nil
}

func (s *libraryServiceImpl) AddBook(ctx context.Context, in dto.BookInput) (*models.Book, error) {
	book, err := checkBook(ctx, in, s.courses)
	if err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("bookId", book.ID).Int64("courseId", book.CourseID).Msg("Book added")
	return book, nil
}

func (s *libraryServiceImpl) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

// RemoveBook deletes the book and all of its loans, returning how many
// loans were dropped
func (s *libraryServiceImpl) RemoveBook(ctx context.Context, bookID int64) (int64, error) {
	removed, err := s.books.DeleteWithLoans(ctx, bookID)
	if err != nil {
		return 0, err
	}
	s.logger.Warn().Int64("bookId", bookID).Int64("loansRemoved", removed).Msg("Book removed")
	return removed, nil
}

// UpdateStock applies a signed delta to a book's quantity. A delta that
// would take the quantity below zero leaves it at zero.
func (s *libraryServiceImpl) UpdateStock(ctx context.Context, in dto.StockInput) (*models.Book, error) {
	rawDelta := strings.TrimSpace(in.Delta)
	rawID := strings.TrimSpace(in.BookID)

	if rawDelta == "" {
		return nil, fieldError("delta", "Please enter quantity.")
	}
	if rawID == "" {
		return nil, fieldError("bookId", "Please enter book ID")
	}
	delta, ok := validation.ParseSigned(rawDelta)
	if !ok {
		return nil, fieldError("delta", "Invalid quantity, it must be a numeric value.")
	}
	// quantity is a 32-bit column
	if delta < math.MinInt32 || delta > math.MaxInt32 {
		return nil, fieldError("delta", "Invalid quantity, it is out of range.")
	}
	bookID, ok := validation.ParseWhole(rawID)
	if !ok {
		return nil, fieldError("bookId", "Invalid book ID, it must be a numeric value.")
	}

	book, err := s.books.AdjustStock(ctx, bookID, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("bookId", bookID).Int64("delta", delta).Int("quantity", book.Quantity).Msg("Stock updated")
	return book, nil
}

// LendableBooks lists the in-stock books of the student's course
func (s *libraryServiceImpl) LendableBooks(ctx context.Context, enrollmentNo int64) ([]models.Book, error) {
	student, err := s.students.GetByEnrollmentNo(ctx, enrollmentNo)
	if err != nil {
		return nil, err
	}
	return s.books.ListLendable(ctx, student.CourseID)
}

// selection removes repeated ids while keeping the caller's order
func selection(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, fieldError("bookIds", "Please select atleast one book.")
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// Lend hands one copy of each selected book to the student. Every book must
// belong to the student's course and be in stock, or nothing is lent.
func (s *libraryServiceImpl) Lend(ctx context.Context, enrollmentNo int64, req dto.LoanRequest) (*dto.LoanReceipt, error) {
	ids, err := selection(req.BookIDs)
	if err != nil {
		return nil, err
	}

	lendable, err := s.LendableBooks(ctx, enrollmentNo)
	if err != nil {
		return nil, err
	}
	available := make(map[int64]struct{}, len(lendable))
	for _, b := range lendable {
		available[b.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := available[id]; !ok {
			return nil, fieldError("bookIds", fmt.Sprintf("Book %d cannot be lent to this student.", id))
		}
	}

	if err := s.loans.Lend(ctx, enrollmentNo, ids); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentNo", enrollmentNo).Ints64("bookIds", ids).Msg("Books lent")
	return &dto.LoanReceipt{EnrollmentNo: enrollmentNo, BookIDs: ids}, nil
}

// Return takes back one copy of each selected book
func (s *libraryServiceImpl) Return(ctx context.Context, enrollmentNo int64, req dto.LoanRequest) (*dto.LoanReceipt, error) {
	ids, err := selection(req.BookIDs)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.GetByEnrollmentNo(ctx, enrollmentNo); err != nil {
		return nil, err
	}

	if err := s.loans.Return(ctx, enrollmentNo, ids); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentNo", enrollmentNo).Ints64("bookIds", ids).Msg("Books returned")
	return &dto.LoanReceipt{EnrollmentNo: enrollmentNo, BookIDs: ids}, nil
}

// LoansFor lists the copies a student currently holds
func (s *libraryServiceImpl) LoansFor(ctx context.Context, enrollmentNo int64) ([]models.LoanedBook, error) {
	if _, err := s.students.GetByEnrollmentNo(ctx, enrollmentNo); err != nil {
		return nil, err
	}
	return s.loans.ListForStudent(ctx, enrollmentNo)
}
