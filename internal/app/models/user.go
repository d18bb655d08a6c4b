package models

// User maps the 'user' table
type User struct {
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"` // bcrypt hash
	Email    string `json:"email" db:"email"`
}
