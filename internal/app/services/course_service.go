package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// CourseService manages the course catalog
type CourseService interface {
	Create(ctx context.Context, in dto.CourseInput) (*models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, id int64, in dto.CourseInput) (*models.Course, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type courseServiceImpl struct {
	courses CourseStore
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courses: courses,
		logger:  logger.With().Str("service", "course").Logger(),
	}
}

// parseCourseID validates the id field of the course form
func parseCourseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fieldError("courseId", "Please enter course id.")
	}
	id, ok := validation.ParseWhole(raw)
	if !ok {
		return 0, fieldError("courseId", "Invalid course id, ID must be a numeric value.")
	}
	return id, nil
}

// checkCourseFields validates everything but the id
func checkCourseFields(in dto.CourseInput) (*models.Course, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fieldError("name", "Please enter course name")
	}

	fee := strings.TrimSpace(in.Fee)
	if fee == "" {
		return nil, fieldError("fee", "Please enter fee.")
	}
	amount, ok := validation.ParseWhole(fee)
	if !ok {
		return nil, fieldError("fee", "Invalid fee, fee must be a numeric value.")
	}

	year := strings.TrimSpace(in.Year)
	if year == "" {
		return nil, fieldError("year", "Please select course year.")
	}
	years, ok := validation.ParseWhole(year)
	if !ok || years < models.MinCourseYears || years > models.MaxCourseYears {
		return nil, fieldError("year", fmt.Sprintf("Invalid course year, please select from %d to %d.",
			models.MinCourseYears, models.MaxCourseYears))
	}

	return &models.Course{Name: name, Fee: amount, Year: int(years)}, nil
}

func (s *courseServiceImpl) Create(ctx context.Context, in dto.CourseInput) (*models.Course, error) {
	id, err := parseCourseID(in.ID)
	if err != nil {
		return nil, err
	}

	exists, err := s.courses.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error checking course: %w", err)
	}
	if exists {
		return nil, apperrors.ErrCourseAlreadyExists
	}

	course, err := checkCourseFields(in)
	if err != nil {
		return nil, err
	}
	course.ID = id

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", id).Msg("Course created")
	return course, nil
}

func (s *courseServiceImpl) Get(ctx context.Context, id int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *courseServiceImpl) List(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

// Update rewrites the course identified by id. The id itself never changes.
func (s *courseServiceImpl) Update(ctx context.Context, id int64, in dto.CourseInput) (*models.Course, error) {
	if _, err := s.courses.GetByID(ctx, id); err != nil {
		return nil, err
	}

	course, err := checkCourseFields(in)
	if err != nil {
		return nil, err
	}
	course.ID = id

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", id).Msg("Course updated")
	return course, nil
}

// Remove deletes the course together with every student enrolled in it and
// returns the number of students removed.
func (s *courseServiceImpl) Remove(ctx context.Context, id int64) (int64, error) {
	removed, err := s.courses.DeleteWithStudents(ctx, id)
	if err != nil {
		return 0, err
	}

	s.logger.Warn().Int64("courseId", id).Int64("studentsRemoved", removed).Msg("Course removed")
	return removed, nil
}
