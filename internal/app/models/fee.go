package models

// FeeAccount is the fee position of one student against its course
type FeeAccount struct {
	EnrollmentNo int64  `json:"enrollmentNo"`
	StudentName  string `json:"studentName"`
	Address      string `json:"address"`
	PhoneNo      string `json:"phoneNo"`
	CourseID     int64  `json:"courseId"`
	CourseName   string `json:"courseName"`
	CourseYear   int    `json:"courseYear"`
	TotalFee     int64  `json:"totalFee"`
	FeeDeposited int64  `json:"feeDeposited"`
}

// Remaining returns the outstanding balance
func (a FeeAccount) Remaining() int64 {
	return a.TotalFee - a.FeeDeposited
}

// FullyPaid reports whether nothing remains to deposit
func (a FeeAccount) FullyPaid() bool {
	return a.Remaining() <= 0
}
