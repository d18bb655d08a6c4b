package dto

// BookInput is the add-book form
type BookInput struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	CourseID  string `json:"courseId"`
	ISBN      string `json:"isbn"`
	Publisher string `json:"publisher"`
}

// StockInput adjusts the available quantity of a book by a signed delta
type StockInput struct {
	BookID string `json:"bookId"`
	Delta  string `json:"delta"`
}

// LoanRequest selects the books to lend or return
type LoanRequest struct {
	BookIDs []int64 `json:"bookIds"`
}

// LoanReceipt reports the books moved by a lend or return
type LoanReceipt struct {
	EnrollmentNo int64   `json:"enrollmentNo"`
	BookIDs      []int64 `json:"bookIds"`
}
