package models

import "time"

// Book maps the 'books' table
type Book struct {
	ID        int64  `json:"bookId" db:"book_id"`
	Name      string `json:"name" db:"name"`
	Quantity  int    `json:"quantity" db:"quantity"`
	CourseID  int64  `json:"courseId" db:"course_id"`
	ISBN      string `json:"isbn" db:"isbn"`
	Publisher string `json:"publisher" db:"publisher"`
}

// Loan maps a 'books_lended' row: one copy held by one student
type Loan struct {
	ID           int64     `json:"id" db:"id"`
	EnrollmentNo int64     `json:"enrollmentNo" db:"enrollment_no"`
	BookID       int64     `json:"bookId" db:"book_id"`
	LentAt       time.Time `json:"lentAt" db:"lent_at"`
}

// LoanedBook is a loan joined with the book's display fields
type LoanedBook struct {
	LoanID    int64     `json:"loanId"`
	BookID    int64     `json:"bookId"`
	Name      string    `json:"name"`
	Publisher string    `json:"publisher"`
	LentAt    time.Time `json:"lentAt"`
}
