package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
)

// StudentService covers admission and the student record afterwards
type StudentService interface {
	Admit(ctx context.Context, in dto.StudentInput) (int64, error)
	Get(ctx context.Context, enrollmentNo int64) (*models.StudentDetail, error)
	Update(ctx context.Context, enrollmentNo int64, in dto.StudentInput) error
	Remove(ctx context.Context, enrollmentNo int64) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	students StudentStore
	courses  CourseStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, courses CourseStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		students: students,
		courses:  courses,
		logger:   logger.With().Str("service", "student").Logger(),
		now:      time.Now,
	}
}

// Admit validates the form and inserts a new student with nothing deposited
func (s *studentServiceImpl) Admit(ctx context.Context, in dto.StudentInput) (int64, error) {
	checked, err := checkAdmission(ctx, in, s.courses)
	if err != nil {
		return 0, err
	}

	student := checked.student(s.now())
	id, err := s.students.Create(ctx, student)
	if err != nil {
		return 0, fmt.Errorf("error admitting student: %w", err)
	}

	s.logger.Info().Int64("enrollmentNo", id).Int64("courseId", student.CourseID).Msg("Student admitted")
	return id, nil
}

// Get returns a student with its course
func (s *studentServiceImpl) Get(ctx context.Context, enrollmentNo int64) (*models.StudentDetail, error) {
	return s.students.GetDetail(ctx, enrollmentNo)
}

// Update re-runs the admission checks and rewrites the student. Age and year
// of admission are recomputed as of today.
func (s *studentServiceImpl) Update(ctx context.Context, enrollmentNo int64, in dto.StudentInput) error {
	if _, err := s.students.GetByEnrollmentNo(ctx, enrollmentNo); err != nil {
		return err
	}

	checked, err := checkAdmission(ctx, in, s.courses)
	if err != nil {
		return err
	}

	student := checked.student(s.now())
	student.EnrollmentNo = enrollmentNo
	if err := s.students.Update(ctx, student); err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	s.logger.Info().Int64("enrollmentNo", enrollmentNo).Msg("Student updated")
	return nil
}

// Remove deletes a student and the loans it holds
func (s *studentServiceImpl) Remove(ctx context.Context, enrollmentNo int64) error {
	if err := s.students.Delete(ctx, enrollmentNo); err != nil {
		return err
	}
	s.logger.Info().Int64("enrollmentNo", enrollmentNo).Msg("Student removed")
	return nil
}
