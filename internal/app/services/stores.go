package services

import (
	"context"

	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/repositories"
)

// StudentStore is the persistence surface used for students and fees
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) (int64, error)
	CreateBatch(ctx context.Context, students []models.Student) (int, error)
	GetByEnrollmentNo(ctx context.Context, enrollmentNo int64) (*models.Student, error)
	GetDetail(ctx context.Context, enrollmentNo int64) (*models.StudentDetail, error)
	List(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, enrollmentNo int64) error
	FeeAccount(ctx context.Context, enrollmentNo int64) (*models.FeeAccount, error)
	AddFeeDeposit(ctx context.Context, enrollmentNo, amount int64) (*models.FeeAccount, error)
}

// CourseStore is the persistence surface used for courses
type CourseStore interface {
	Create(ctx context.Context, c *models.Course) error
	CreateBatch(ctx context.Context, courses []models.Course) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, c *models.Course) error
	DeleteWithStudents(ctx context.Context, id int64) (int64, error)
}

// BookStore is the persistence surface used for books
type BookStore interface {
	Create(ctx context.Context, b *models.Book) error
	CreateBatch(ctx context.Context, books []models.Book) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	ListLendable(ctx context.Context, courseID int64) ([]models.Book, error)
	AdjustStock(ctx context.Context, id int64, delta int64) (*models.Book, error)
	DeleteWithLoans(ctx context.Context, id int64) (int64, error)
}

// LoanStore is the persistence surface used for loans
type LoanStore interface {
	Lend(ctx context.Context, enrollmentNo int64, bookIDs []int64) error
	Return(ctx context.Context, enrollmentNo int64, bookIDs []int64) error
	ListForStudent(ctx context.Context, enrollmentNo int64) ([]models.LoanedBook, error)
	List(ctx context.Context) ([]models.Loan, error)
	CreateBatch(ctx context.Context, loans []models.Loan) (int, error)
}

// UserStore is the persistence surface used for staff accounts
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, username, hash string) error
	Delete(ctx context.Context, username string) error
}

// SettingsStore is the persistence surface used for preferences
type SettingsStore interface {
	All(ctx context.Context) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
}

// MaintenanceStore runs whole-store operations
type MaintenanceStore interface {
	Wipe(ctx context.Context) error
}

var (
	_ StudentStore     = (*repositories.StudentRepository)(nil)
	_ CourseStore      = (*repositories.CourseRepository)(nil)
	_ BookStore        = (*repositories.BookRepository)(nil)
	_ LoanStore        = (*repositories.LoanRepository)(nil)
	_ UserStore        = (*repositories.UserRepository)(nil)
	_ SettingsStore    = (*repositories.SettingsRepository)(nil)
	_ MaintenanceStore = (*repositories.MaintenanceRepository)(nil)
)
