package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// fieldError is a validation failure tied to one input field
func fieldError(field, message string) error {
	return apperrors.NewValidationError(message).WithDetails(map[string]interface{}{"field": field})
}

// admission holds the admission form once every check has passed
type admission struct {
	name       string
	fatherName *string
	dob        time.Time
	address    string
	phoneNo    string
	email      *string
	gender     models.Gender
	pincode    string
	class10    float64
	class12    float64
	courseID   int64
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// checkAdmission runs the admission checks in order and stops at the first
// failure. The same checks guard both admission and update.
func checkAdmission(ctx context.Context, in dto.StudentInput, courses CourseStore) (*admission, error) {
	name := strings.TrimSpace(in.Name)
	fatherName := strings.TrimSpace(in.FatherName)
	year := strings.TrimSpace(in.BirthYear)
	month := strings.TrimSpace(in.BirthMonth)
	day := strings.TrimSpace(in.BirthDay)
	address := strings.TrimSpace(in.Address)
	phone := strings.TrimSpace(in.PhoneNo)
	email := strings.TrimSpace(in.Email)
	gender := strings.TrimSpace(in.Gender)
	pincode := strings.TrimSpace(in.Pincode)
	class10 := strings.TrimSpace(in.Class10Percentage)
	class12 := strings.TrimSpace(in.Class12Percentage)
	course := strings.TrimSpace(in.CourseID)

	if name == "" {
		return nil, fieldError("name", "Please enter Name.")
	}
	if !validation.NewStringValidation(name).WithPattern(validation.CompiledPatterns.Name).WithMaxLength(validation.TextLength).Validate() {
		return nil, fieldError("name", "Invalid Name, please enter a proper name.")
	}

	if !validation.NewStringValidation(fatherName).WithRequired(false).WithPattern(validation.CompiledPatterns.Name).WithMaxLength(validation.TextLength).Validate() {
		return nil, fieldError("fatherName", "Invalid Father Name, please enter a proper name.")
	}

	if year == "" {
		return nil, fieldError("birthYear", "Please select Year.")
	}
	if month == "" {
		return nil, fieldError("birthMonth", "Please select Month.")
	}
	if day == "" {
		return nil, fieldError("birthDay", "Please select Day.")
	}
	dob, ok := calendarDate(year, month, day)
	if !ok {
		return nil, fieldError("dateOfBirth", "Invalid Date, please enter a proper date.")
	}

	if address == "" {
		return nil, fieldError("address", "Please enter Address.")
	}

	if phone == "" {
		return nil, fieldError("phoneNo", "Please enter Phone Number.")
	}
	if !validation.NewStringValidation(phone).WithPattern(validation.CompiledPatterns.Digits).WithExactLength(validation.PhoneLength).Validate() {
		return nil, fieldError("phoneNo", "Invalid Phone Number, please enter a proper number")
	}

	if !validation.NewStringValidation(email).WithRequired(false).WithPattern(validation.CompiledPatterns.Email).WithMaxLength(validation.TextLength).Validate() {
		return nil, fieldError("email", "Invalid Email, please enter a proper email.")
	}

	if gender == "" {
		return nil, fieldError("gender", "Please select Gender.")
	}
	if !models.Gender(gender).Valid() {
		return nil, fieldError("gender", "Invalid Gender, please select Male, Female or Other.")
	}

	if pincode == "" {
		return nil, fieldError("pincode", "Please enter Pincode.")
	}
	if !validation.NewStringValidation(pincode).WithPattern(validation.CompiledPatterns.Digits).WithExactLength(validation.PincodeLength).Validate() {
		return nil, fieldError("pincode", "Invalid Pincode, please enter a proper pincode.")
	}

	if class10 == "" || class12 == "" {
		return nil, fieldError("percentage", "Please enter percentage.")
	}
	per10, ok10 := validation.ParseDecimal(class10)
	per12, ok12 := validation.ParseDecimal(class12)
	if !ok10 || !ok12 || per10 < 0 || per12 < 0 {
		return nil, fieldError("percentage", "Invalid Percentage, please enter a decimal or numeric value.")
	}

	if course == "" {
		return nil, fieldError("courseId", "Please select Course.")
	}
	courseID, ok := validation.ParseWhole(course)
	if !ok {
		return nil, fieldError("courseId", "Please select correct course from the list.")
	}
	exists, err := courses.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error checking course: %w", err)
	}
	if !exists {
		return nil, fieldError("courseId", "Please select correct course from the list.")
	}

	return &admission{
		name:       name,
		fatherName: optional(fatherName),
		dob:        dob,
		address:    address,
		phoneNo:    phone,
		email:      optional(email),
		gender:     models.Gender(gender),
		pincode:    pincode,
		class10:    per10,
		class12:    per12,
		courseID:   courseID,
	}, nil
}

// calendarDate builds a date from its parts and rejects days that do not
// exist, such as February 30.
func calendarDate(year, month, day string) (time.Time, bool) {
	y, okY := validation.ParseWhole(year)
	m, okM := validation.ParseWhole(month)
	d, okD := validation.ParseWhole(day)
	if !okY || !okM || !okD || m < 1 || m > 12 || d < 1 || d > 31 || y < 1 {
		return time.Time{}, false
	}
	t := time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC)
	if t.Year() != int(y) || t.Month() != time.Month(m) || t.Day() != int(d) {
		return time.Time{}, false
	}
	return t, true
}

// student turns a checked admission into a record as of now
func (a *admission) student(now time.Time) *models.Student {
	return &models.Student{
		Name:              a.name,
		FatherName:        a.fatherName,
		DateOfBirth:       a.dob,
		Address:           a.address,
		PhoneNo:           a.phoneNo,
		Email:             a.email,
		YearOfAdmission:   now.Year(),
		Age:               models.AgeAt(a.dob, now),
		Gender:            a.gender,
		Pincode:           a.pincode,
		CourseID:          a.courseID,
		Class10Percentage: a.class10,
		Class12Percentage: a.class12,
	}
}
