package dto

import "time"

// DepositRequest is a fee deposit as typed by the clerk
type DepositRequest struct {
	Amount string `json:"amount" example:"5000"`
}

// FeeSummary shows a student's position before a deposit
type FeeSummary struct {
	EnrollmentNo int64  `json:"enrollmentNo"`
	StudentName  string `json:"studentName"`
	CourseName   string `json:"courseName"`
	TotalFee     int64  `json:"totalFee"`
	FeeDeposited int64  `json:"feeDeposited"`
	Remaining    int64  `json:"remaining"`
}

// FeeReceipt is produced by a successful deposit
type FeeReceipt struct {
	EnrollmentNo int64     `json:"enrollmentNo"`
	StudentName  string    `json:"studentName"`
	Address      string    `json:"address"`
	PhoneNo      string    `json:"phoneNo"`
	CourseID     int64     `json:"courseId"`
	CourseName   string    `json:"courseName"`
	CourseYear   int       `json:"courseYear"`
	Date         time.Time `json:"date"`
	TotalFee     int64     `json:"totalFee"`
	Amount       int64     `json:"amount"`
	FeeDeposited int64     `json:"feeDeposited"`
	Remaining    int64     `json:"remaining"`
}
