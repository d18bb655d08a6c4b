package repositories

import (
	"context"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/migrations"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/db"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

// testRepos connects to CAMPUSRECORDS_TEST_DATABASE_URL, migrates it and
// wipes the records tables. Tests are skipped when the variable is unset.
func testRepos(t *testing.T) *Repositories {
	t.Helper()
	url := os.Getenv("CAMPUSRECORDS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CAMPUSRECORDS_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool).Migrate(ctx))

	repos := NewRepositories(db.NewFromPool(pool))
	require.NoError(t, repos.MaintenanceRepository.Wipe(ctx))
	return repos
}

func newStudent(courseID int64) *models.Student {
	return &models.Student{
		Name:            "Asha Verma",
		DateOfBirth:     time.Date(2004, 3, 1, 0, 0, 0, 0, time.UTC),
		Address:         "12 Park Street",
		PhoneNo:         "9876543210",
		YearOfAdmission: 2022,
		Age:             18,
		Gender:          models.GenderFemale,
		Pincode:         "700016",
		CourseID:        courseID,
	}
}

func seedStudent(t *testing.T, repos *Repositories, courseID int64) int64 {
	t.Helper()
	enrollmentNo, err := repos.StudentRepository.Create(context.Background(), newStudent(courseID))
	require.NoError(t, err)
	return enrollmentNo
}

func TestIntegration_CourseCascade(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.CourseRepository.Create(ctx, &models.Course{ID: 1, Name: "BCA", Fee: 1000, Year: 3}))
	err := repos.CourseRepository.Create(ctx, &models.Course{ID: 1, Name: "Again", Fee: 1, Year: 1})
	assert.ErrorIs(t, err, apperrors.ErrCourseAlreadyExists)

	first := seedStudent(t, repos, 1)
	seedStudent(t, repos, 1)

	_, err = repos.StudentRepository.Create(ctx, newStudent(99))
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	removed, err := repos.CourseRepository.DeleteWithStudents(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	_, err = repos.StudentRepository.GetByEnrollmentNo(ctx, first)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestIntegration_BookCascade(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.CourseRepository.Create(ctx, &models.Course{ID: 5, Name: "BSc", Fee: 800, Year: 3}))
	first := seedStudent(t, repos, 5)
	second := seedStudent(t, repos, 5)

	book := &models.Book{Name: "Optics", Quantity: 2, CourseID: 5, ISBN: "9780306406157", Publisher: "Pearson"}
	require.NoError(t, repos.BookRepository.Create(ctx, book))
	require.NoError(t, repos.LoanRepository.Lend(ctx, first, []int64{book.ID}))
	require.NoError(t, repos.LoanRepository.Lend(ctx, second, []int64{book.ID}))

	removed, err := repos.BookRepository.DeleteWithLoans(ctx, book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	_, err = repos.BookRepository.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	for _, no := range []int64{first, second} {
		loans, err := repos.LoanRepository.ListForStudent(ctx, no)
		require.NoError(t, err)
		assert.Empty(t, loans)
	}

	_, err = repos.BookRepository.DeleteWithLoans(ctx, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestIntegration_OutOfRangeValuesAreConflicts(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.CourseRepository.Create(ctx, &models.Course{ID: 6, Name: "BCom", Fee: 700, Year: 3}))

	st := newStudent(6)
	st.PhoneNo = "98765432101"
	_, err := repos.StudentRepository.Create(ctx, st)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = repos.BookRepository.CreateBatch(ctx, []models.Book{
		{Name: "Optics", Quantity: 1, CourseID: 6, ISBN: "9780306406157", Publisher: "Pearson"},
		{Name: "Mechanics", Quantity: 1, CourseID: 6, ISBN: "97803064061571", Publisher: "Pearson"},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	books, err := repos.BookRepository.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	book := &models.Book{Name: "Optics", Quantity: 1, CourseID: 6, ISBN: "9780306406157", Publisher: "Pearson"}
	require.NoError(t, repos.BookRepository.Create(ctx, book))
	_, err = repos.BookRepository.AdjustStock(ctx, book.ID, math.MaxInt32)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestIntegration_FeeDepositBound(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.CourseRepository.Create(ctx, &models.Course{ID: 2, Name: "MCA", Fee: 1000, Year: 2}))
	enrollmentNo := seedStudent(t, repos, 2)

	account, err := repos.StudentRepository.AddFeeDeposit(ctx, enrollmentNo, 600)
	require.NoError(t, err)
	assert.EqualValues(t, 400, account.Remaining())

	_, err = repos.StudentRepository.AddFeeDeposit(ctx, enrollmentNo, 401)
	assert.ErrorIs(t, err, apperrors.ErrFeeExceedsBalance)

	_, err = repos.StudentRepository.AddFeeDeposit(ctx, 9999, 1)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	account, err = repos.StudentRepository.FeeAccount(ctx, enrollmentNo)
	require.NoError(t, err)
	assert.EqualValues(t, 600, account.FeeDeposited)
}

func TestIntegration_LendAndReturn(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.CourseRepository.Create(ctx, &models.Course{ID: 3, Name: "BBA", Fee: 500, Year: 3}))
	enrollmentNo := seedStudent(t, repos, 3)

	book := &models.Book{Name: "Accounting", Quantity: 1, CourseID: 3, ISBN: "978-0", Publisher: "Pearson"}
	require.NoError(t, repos.BookRepository.Create(ctx, book))

	require.NoError(t, repos.LoanRepository.Lend(ctx, enrollmentNo, []int64{book.ID}))

	// No copy left, so nothing about the second lend sticks
	err := repos.LoanRepository.Lend(ctx, enrollmentNo, []int64{book.ID})
	assert.ErrorIs(t, err, apperrors.ErrBookUnavailable)

	loans, err := repos.LoanRepository.ListForStudent(ctx, enrollmentNo)
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	require.NoError(t, repos.LoanRepository.Return(ctx, enrollmentNo, []int64{book.ID}))
	err = repos.LoanRepository.Return(ctx, enrollmentNo, []int64{book.ID})
	assert.ErrorIs(t, err, apperrors.ErrLoanNotFound)

	got, err := repos.BookRepository.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	got, err = repos.BookRepository.AdjustStock(ctx, book.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	err = repos.BookRepository.Create(ctx, &models.Book{Name: "Broken", Quantity: -1, CourseID: 3})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestIntegration_SettingsAndUsers(t *testing.T) {
	repos := testRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.SettingsRepository.Set(ctx, "theme", "dark"))
	settings, err := repos.SettingsRepository.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings["theme"])

	// An unstorable key fails the whole write
	err = repos.SettingsRepository.SetMany(ctx, map[string]string{
		"theme":                 "light",
		strings.Repeat("k", 60): "x",
	})
	require.Error(t, err)
	settings, err = repos.SettingsRepository.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings["theme"])

	require.NoError(t, repos.SettingsRepository.SetMany(ctx, map[string]string{"theme": "light", "default_tab": "Library"}))
	settings, err = repos.SettingsRepository.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", settings["theme"])
	assert.Equal(t, "Library", settings["default_tab"])

	_ = repos.UserRepository.Delete(ctx, "integration")
	require.NoError(t, repos.UserRepository.Create(ctx, &models.User{Username: "integration", Password: "x", Email: "i@campus.local"}))
	err = repos.UserRepository.Create(ctx, &models.User{Username: "integration", Password: "y"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	require.NoError(t, repos.UserRepository.Delete(ctx, "integration"))
	_, err = repos.UserRepository.GetByUsername(ctx, "integration")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
