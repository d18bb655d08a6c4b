package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = 4
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, time.August, 19, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memStore
	students *studentServiceImpl
	fees     *feeServiceImpl
	courses  CourseService
	library  LibraryService
	exchange ExchangeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	log := zerolog.Nop()

	students := NewStudentService(store.studentsStore(), store.coursesStore(), log).(*studentServiceImpl)
	students.now = func() time.Time { return fixedNow }
	fees := NewFeeService(store.studentsStore(), log).(*feeServiceImpl)
	fees.now = func() time.Time { return fixedNow }

	return &fixture{
		store:    store,
		students: students,
		fees:     fees,
		courses:  NewCourseService(store.coursesStore(), log),
		library: NewLibraryService(store.booksStore(), store.loansStore(), store.studentsStore(),
			store.coursesStore(), log),
		exchange: NewExchangeService(store.studentsStore(), store.coursesStore(), store.booksStore(),
			store.loansStore(), log),
	}
}

func (f *fixture) addCourse(t *testing.T, id, fee string) {
	t.Helper()
	_, err := f.courses.Create(context.Background(), dto.CourseInput{ID: id, Name: "Course " + id, Fee: fee, Year: "3"})
	require.NoError(t, err)
}

func (f *fixture) admit(t *testing.T, in dto.StudentInput) int64 {
	t.Helper()
	id, err := f.students.Admit(context.Background(), in)
	require.NoError(t, err)
	return id
}

func (f *fixture) addBook(t *testing.T, courseID, quantity string) *models.Book {
	t.Helper()
	book, err := f.library.AddBook(context.Background(), dto.BookInput{
		Name:      "Optics",
		Quantity:  quantity,
		CourseID:  courseID,
		ISBN:      "9780306406157",
		Publisher: "Pearson",
	})
	require.NoError(t, err)
	return book
}

// validStudent is an admission form that passes every check for course 101
func validStudent() dto.StudentInput {
	return dto.StudentInput{
		Name:              "Asha Rao",
		FatherName:        "Mohan Rao",
		BirthYear:         "2005",
		BirthMonth:        "8",
		BirthDay:          "20",
		Address:           "12 Lake Road",
		PhoneNo:           "9876543210",
		Email:             "asha@college.in",
		Gender:            "Female",
		Pincode:           "560001",
		Class10Percentage: "91.4",
		Class12Percentage: "88",
		CourseID:          "101",
	}
}
