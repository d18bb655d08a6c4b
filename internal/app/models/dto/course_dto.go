package dto

// CourseInput is the course form. ID is ignored on update; the path
// parameter identifies the course instead.
type CourseInput struct {
	ID   string `json:"courseId"`
	Name string `json:"name"`
	Fee  string `json:"fee"`
	Year string `json:"year"`
}
