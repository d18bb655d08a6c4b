package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

func TestCourseCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   dto.CourseInput
		want string
	}{
		{"no id", dto.CourseInput{Name: "BCom", Fee: "100", Year: "3"}, "Please enter course id."},
		{"id not numeric", dto.CourseInput{ID: "B1", Name: "BCom", Fee: "100", Year: "3"}, "Invalid course id, ID must be a numeric value."},
		{"no name", dto.CourseInput{ID: "1", Fee: "100", Year: "3"}, "Please enter course name"},
		{"no fee", dto.CourseInput{ID: "1", Name: "BCom", Year: "3"}, "Please enter fee."},
		{"fee not numeric", dto.CourseInput{ID: "1", Name: "BCom", Fee: "1k", Year: "3"}, "Invalid fee, fee must be a numeric value."},
		{"no year", dto.CourseInput{ID: "1", Name: "BCom", Fee: "100"}, "Please select course year."},
		{"year out of range", dto.CourseInput{ID: "1", Name: "BCom", Fee: "100", Year: "5"}, "Invalid course year, please select from 1 to 4."},
		{"year zero", dto.CourseInput{ID: "1", Name: "BCom", Fee: "100", Year: "0"}, "Invalid course year, please select from 1 to 4."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.courses.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestCourseCreate_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "101", "45000")

	_, err := f.courses.Create(context.Background(), dto.CourseInput{ID: "101", Name: "Other", Fee: "1", Year: "1"})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
	assert.EqualError(t, err, "This course ID is already present.")
}

func TestCourseUpdate(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "101", "45000")
	ctx := context.Background()

	// The id in the body is ignored; the course keeps its id
	updated, err := f.courses.Update(ctx, 101, dto.CourseInput{ID: "555", Name: "BSc Physics", Fee: "50000", Year: "4"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), updated.ID)

	got, err := f.courses.Get(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "BSc Physics", got.Name)
	assert.Equal(t, int64(50000), got.Fee)
	assert.Equal(t, 4, got.Year)

	_, err = f.courses.Get(ctx, 555)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = f.courses.Update(ctx, 999, dto.CourseInput{Name: "X", Fee: "1", Year: "1"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseRemove_CascadesToStudents(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "101", "45000")
	f.addCourse(t, "102", "30000")
	ctx := context.Background()

	a := f.admit(t, validStudent())
	b := f.admit(t, validStudent())
	other := validStudent()
	other.CourseID = "102"
	c := f.admit(t, other)

	book := f.addBook(t, "101", "3")
	_, err := f.library.Lend(ctx, a, dto.LoanRequest{BookIDs: []int64{book.ID}})
	require.NoError(t, err)

	removed, err := f.courses.Remove(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	for _, id := range []int64{a, b} {
		_, err := f.students.Get(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	}
	_, err = f.students.Get(ctx, c)
	assert.NoError(t, err)

	_, err = f.courses.Get(ctx, 101)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	// Books are not tied to the course row and survive it; the removed
	// student's loan goes with the student
	books, err := f.library.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 0, f.store.loanCount(a, book.ID))

	_, err = f.courses.Remove(ctx, 101)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseList(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "3", "1")
	f.addCourse(t, "1", "1")

	list, err := f.courses.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
}
