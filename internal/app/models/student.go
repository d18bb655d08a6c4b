package models

import "time"

// Gender is one of the three values accepted at admission
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted genders in display order
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Valid reports whether g is an accepted gender
func (g Gender) Valid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

// Student maps the 'student' table
type Student struct {
	EnrollmentNo      int64     `json:"enrollmentNo" db:"enrollment_no"`
	Name              string    `json:"name" db:"name"`
	FatherName        *string   `json:"fatherName,omitempty" db:"f_name"`
	DateOfBirth       time.Time `json:"dateOfBirth" db:"dob"`
	Address           string    `json:"address" db:"address"`
	PhoneNo           string    `json:"phoneNo" db:"phone_no"`
	Email             *string   `json:"email,omitempty" db:"email"`
	YearOfAdmission   int       `json:"yearOfAdmission" db:"year_of_ad"`
	Age               int       `json:"age" db:"age"`
	Gender            Gender    `json:"gender" db:"gender"`
	Pincode           string    `json:"pincode" db:"pincode"`
	CourseID          int64     `json:"courseId" db:"course_id"`
	Class10Percentage float64   `json:"class10Percentage" db:"class_10_per"`
	Class12Percentage float64   `json:"class12Percentage" db:"class_12_per"`
	FeeDeposited      int64     `json:"feeDeposited" db:"fee_deposited"`
}

// StudentDetail is a student joined with its course
type StudentDetail struct {
	Student
	Course Course `json:"course"`
}

// AgeAt returns the number of whole years elapsed between birth and on.
// A birthday that has not yet occurred in on's year does not count.
func AgeAt(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}
