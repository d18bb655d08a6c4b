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

var studentColumns = []string{
	"s.enrollment_no", "s.name", "s.f_name", "s.dob", "s.address", "s.phone_no", "s.email",
	"s.year_of_ad", "s.age", "s.gender", "s.pincode", "s.course_id",
	"s.class_10_per", "s.class_12_per", "s.fee_deposited",
}

// StudentRepository handles database operations for students and their fee ledger
type StudentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{
		db: database,
		sb: psql,
	}
}

func scanStudent(row pgx.Row, s *models.Student, extra ...any) error {
	dest := []any{
		&s.EnrollmentNo, &s.Name, &s.FatherName, &s.DateOfBirth, &s.Address, &s.PhoneNo, &s.Email,
		&s.YearOfAdmission, &s.Age, &s.Gender, &s.Pincode, &s.CourseID,
		&s.Class10Percentage, &s.Class12Percentage, &s.FeeDeposited,
	}
	return row.Scan(append(dest, extra...)...)
}

// mapStudentWriteError turns constraint failures into domain errors
func mapStudentWriteError(err error) error {
	switch {
	case dberrors.IsForeignKeyError(err):
		return apperrors.ErrCourseNotFound
	case dberrors.IsDuplicateKeyError(err):
		return apperrors.NewAlreadyExistsError("This enrollment number is already present.")
	case dberrors.IsConstraintViolation(err) || dberrors.IsDataException(err):
		return apperrors.NewConflictError(fmt.Sprintf("Student violates a store constraint: %v", err))
	}
	return err
}

func (r *StudentRepository) insert(ctx context.Context, q db.DBTX, s *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("student").
		Columns("name", "f_name", "dob", "address", "phone_no", "email", "year_of_ad", "age",
			"gender", "pincode", "course_id", "class_10_per", "class_12_per", "fee_deposited").
		Values(s.Name, s.FatherName, s.DateOfBirth, s.Address, s.PhoneNo, s.Email, s.YearOfAdmission, s.Age,
			s.Gender, s.Pincode, s.CourseID, s.Class10Percentage, s.Class12Percentage, s.FeeDeposited).
		Suffix("RETURNING enrollment_no").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, mapStudentWriteError(err)
	}
	return id, nil
}

// Create inserts a student and returns the assigned enrollment number
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (int64, error) {
	id, err := r.insert(ctx, r.db.Pool, s)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, err
	}
	s.EnrollmentNo = id
	return id, nil
}

// CreateBatch inserts every student in one transaction. Any failure rolls the
// whole batch back.
func (r *StudentRepository) CreateBatch(ctx context.Context, students []models.Student) (int, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := range students {
			id, err := r.insert(ctx, tx, &students[i])
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			students[i].EnrollmentNo = id
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(students), nil
}

// GetByEnrollmentNo retrieves one student
func (r *StudentRepository) GetByEnrollmentNo(ctx context.Context, enrollmentNo int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("student s").
		Where(squirrel.Eq{"s.enrollment_no": enrollmentNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var s models.Student
	if err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &s, nil
}

// GetDetail retrieves a student joined with its course
func (r *StudentRepository) GetDetail(ctx context.Context, enrollmentNo int64) (*models.StudentDetail, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		Columns("c.course_id", "c.name", "c.fee", "c.year").
		From("student s").
		Join("courses c ON c.course_id = s.course_id").
		Where(squirrel.Eq{"s.enrollment_no": enrollmentNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student detail query: %w", err)
	}

	var d models.StudentDetail
	row := r.db.Pool.QueryRow(ctx, sql, args...)
	if err := scanStudent(row, &d.Student, &d.Course.ID, &d.Course.Name, &d.Course.Fee, &d.Course.Year); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student detail: %w", err)
	}
	return &d, nil
}

// List returns every student ordered by enrollment number
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("student s").
		OrderBy("s.enrollment_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Update rewrites the admission fields of a student. Enrollment number and
// fee ledger are untouched.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Update("student").
		SetMap(map[string]interface{}{
			"name":         s.Name,
			"f_name":       s.FatherName,
			"dob":          s.DateOfBirth,
			"address":      s.Address,
			"phone_no":     s.PhoneNo,
			"email":        s.Email,
			"year_of_ad":   s.YearOfAdmission,
			"age":          s.Age,
			"gender":       s.Gender,
			"pincode":      s.Pincode,
			"course_id":    s.CourseID,
			"class_10_per": s.Class10Percentage,
			"class_12_per": s.Class12Percentage,
		}).
		Where(squirrel.Eq{"enrollment_no": s.EnrollmentNo}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentNo", s.EnrollmentNo).Msg("Error executing update student query")
		return mapStudentWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student. Its loans go with it through ON DELETE CASCADE.
func (r *StudentRepository) Delete(ctx context.Context, enrollmentNo int64) error {
	sql, args, err := r.sb.Delete("student").
		Where(squirrel.Eq{"enrollment_no": enrollmentNo}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) feeAccount(ctx context.Context, q db.DBTX, enrollmentNo int64) (*models.FeeAccount, error) {
	sql, args, err := r.sb.Select(
		"s.enrollment_no", "s.name", "s.address", "s.phone_no",
		"c.course_id", "c.name", "c.year", "c.fee", "s.fee_deposited").
		From("student s").
		Join("courses c ON c.course_id = s.course_id").
		Where(squirrel.Eq{"s.enrollment_no": enrollmentNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fee account query: %w", err)
	}

	var a models.FeeAccount
	err = q.QueryRow(ctx, sql, args...).Scan(
		&a.EnrollmentNo, &a.StudentName, &a.Address, &a.PhoneNo,
		&a.CourseID, &a.CourseName, &a.CourseYear, &a.TotalFee, &a.FeeDeposited)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving fee account: %w", err)
	}
	return &a, nil
}

// FeeAccount returns the fee position of a student
func (r *StudentRepository) FeeAccount(ctx context.Context, enrollmentNo int64) (*models.FeeAccount, error) {
	return r.feeAccount(ctx, r.db.Pool, enrollmentNo)
}

// AddFeeDeposit adds amount to the student's deposited total. The update only
// applies while the new total stays within the course fee, so concurrent
// deposits can never overshoot.
func (r *StudentRepository) AddFeeDeposit(ctx context.Context, enrollmentNo, amount int64) (*models.FeeAccount, error) {
	var account *models.FeeAccount
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("student").
			Set("fee_deposited", squirrel.Expr("fee_deposited + ?", amount)).
			Where(squirrel.Eq{"enrollment_no": enrollmentNo}).
			Where("fee_deposited + ? <= (SELECT c.fee FROM courses c WHERE c.course_id = student.course_id)", amount).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build fee deposit query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error depositing fee: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Either the student vanished or the bound check failed
			if _, err := r.feeAccount(ctx, tx, enrollmentNo); err != nil {
				return err
			}
			return apperrors.ErrFeeExceedsBalance
		}

		account, err = r.feeAccount(ctx, tx, enrollmentNo)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}
