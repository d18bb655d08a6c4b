package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

// Services defined in this package:
// - StudentService: admissions and student records
// - FeeService: fee summaries and deposits
// - CourseService: course catalogue
// - LibraryService: books, stock and loans
// - ExchangeService: xlsx export and import
// - UserService: staff accounts and sign-in
// - SettingsService: shared preferences
// - MaintenanceService: bulk wipe
type Services struct {
	Student     StudentService
	Fee         FeeService
	Course      CourseService
	Library     LibraryService
	Exchange    ExchangeService
	User        UserService
	Settings    SettingsService
	Maintenance MaintenanceService
}

// NewServices wires every service to the PostgreSQL repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, adminUsername string,
	prefs *models.Preferences, logger zerolog.Logger) *Services {
	students := repos.StudentRepository
	courses := repos.CourseRepository
	books := repos.BookRepository
	loans := repos.LoanRepository

	return &Services{
		Student:     NewStudentService(students, courses, logger),
		Fee:         NewFeeService(students, logger),
		Course:      NewCourseService(courses, logger),
		Library:     NewLibraryService(books, loans, students, courses, logger),
		Exchange:    NewExchangeService(students, courses, books, loans, logger),
		User:        NewUserService(repos.UserRepository, jwtService, adminUsername, logger),
		Settings:    NewSettingsService(repos.SettingsRepository, prefs, logger),
		Maintenance: NewMaintenanceService(repos.MaintenanceRepository, logger),
	}
}
