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

// CourseRepository handles course database operations
type CourseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: psql,
	}
}

func (r *CourseRepository) insert(ctx context.Context, q db.DBTX, c *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("course_id", "name", "fee", "year").
		Values(c.ID, c.Name, c.Fee, c.Year).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		if dberrors.IsConstraintViolation(err) || dberrors.IsDataException(err) {
			return apperrors.NewConflictError(fmt.Sprintf("Course violates a store constraint: %v", err))
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// Create inserts a course under its caller-supplied ID
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	if err := r.insert(ctx, r.db.Pool, c); err != nil {
		logger.Error().Err(err).Int64("courseId", c.ID).Msg("Error executing create course query")
		return err
	}
	return nil
}

// CreateBatch inserts every course in one transaction
func (r *CourseRepository) CreateBatch(ctx context.Context, courses []models.Course) (int, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := range courses {
			if err := r.insert(ctx, tx, &courses[i]); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(courses), nil
}

// GetByID retrieves a course
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select("course_id", "name", "fee", "year").
		From("courses").
		Where(squirrel.Eq{"course_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var c models.Course
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.Fee, &c.Year); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &c, nil
}

// Exists reports whether a course with id is present
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS(").
		From("courses").
		Where(squirrel.Eq{"course_id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build course exists query: %w", err)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking course existence: %w", err)
	}
	return exists, nil
}

// List returns every course ordered by ID
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	sql, args, err := r.sb.Select("course_id", "name", "fee", "year").
		From("courses").
		OrderBy("course_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Fee, &c.Year); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Update rewrites name, fee and year. The ID is the lookup key.
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", c.Name).
		Set("fee", c.Fee).
		Set("year", c.Year).
		Where(squirrel.Eq{"course_id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseId", c.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteWithStudents removes the course and every student enrolled in it as
// one unit and reports how many students went with it.
func (r *CourseRepository) DeleteWithStudents(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("student").Where(squirrel.Eq{"course_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete course students query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting course students: %w", err)
		}
		removed = tag.RowsAffected()

		sql, args, err = r.sb.Delete("courses").Where(squirrel.Eq{"course_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete course query: %w", err)
		}
		tag, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting course: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
