package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/campusrecords/internal/db"
)

// psql is the statement builder shared by every repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository     *StudentRepository
	CourseRepository      *CourseRepository
	BookRepository        *BookRepository
	LoanRepository        *LoanRepository
	UserRepository        *UserRepository
	SettingsRepository    *SettingsRepository
	MaintenanceRepository *MaintenanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		StudentRepository:     NewStudentRepository(database),
		CourseRepository:      NewCourseRepository(database),
		BookRepository:        NewBookRepository(database),
		LoanRepository:        NewLoanRepository(database),
		UserRepository:        NewUserRepository(database),
		SettingsRepository:    NewSettingsRepository(database),
		MaintenanceRepository: NewMaintenanceRepository(database),
	}
}
