package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Destructive operations need an explicit confirm step
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Student errors
var (
	ErrStudentNotFound = NewResourceNotFoundError("This enrollment number is not found.")
)

// Course errors
var (
	ErrCourseNotFound      = NewResourceNotFoundError("This course ID is not present.")
	ErrCourseAlreadyExists = NewAlreadyExistsError("This course ID is already present.")
)

// Library errors
var (
	ErrBookNotFound    = NewResourceNotFoundError("This book ID is not found.")
	ErrLoanNotFound    = NewResourceNotFoundError("This book is not lent to this student.")
	ErrBookUnavailable = NewConflictError("This book is out of stock.")
)

// Fee errors
var (
	ErrFeeExceedsBalance = NewValidationError("The amount is greater than remaining fee.")
	ErrFeeFullyPaid      = NewValidationError("The fee is already fully deposited.")
)

// User errors
var (
	ErrUserNotFound     = NewResourceNotFoundError("This user doesn't exist.")
	ErrUsernameTaken    = NewAlreadyExistsError("This username is not available.")
	ErrProtectedAccount = NewForbiddenError("The admin account cannot be removed.")
	ErrWrongPassword    = NewCustomError(ErrInvalidCredentials, "Wrong Password! Access Denied.")
	ErrInvalidSetting   = NewValidationError("Invalid setting value.")
)

// NewValidationError creates a validation error carrying a human-readable message
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewAlreadyExistsError creates a new custom error for duplicate resources
func NewAlreadyExistsError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceAlreadyExists,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) *CustomError {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying context details.
// Package-level sentinels are shared, so they are never mutated.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	return &CustomError{
		Err:     e,
		Message: e.Message,
		Details: details,
	}
}

// DetailsOf returns the details attached anywhere in err's chain
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	for errors.As(err, &ce) {
		if ce.Details != nil {
			return ce.Details
		}
		err = ce.Err
	}
	return nil
}
