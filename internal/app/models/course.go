package models

// Course maps the 'courses' table. ID is chosen by staff and never changes.
type Course struct {
	ID   int64  `json:"courseId" db:"course_id"`
	Name string `json:"name" db:"name"`
	Fee  int64  `json:"fee" db:"fee"`
	Year int    `json:"year" db:"year"`
}

// MinCourseYears and MaxCourseYears bound a course's duration
const (
	MinCourseYears = 1
	MaxCourseYears = 4
)
