package dto

import "github.com/yigit/campusrecords/internal/app/models"

// UserResponse is the public view of a staff account
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserResponse drops the password hash from u
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{Username: u.Username, Email: u.Email}
}
