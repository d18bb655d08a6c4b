package dto

// UpdateSettingsRequest changes one or both preferences. Empty fields are
// left untouched.
type UpdateSettingsRequest struct {
	Theme      string `json:"theme" validate:"omitempty,oneof=light dark system"`
	DefaultTab string `json:"defaultTab" validate:"omitempty,oneof=Accounts Library Courses Excel"`
}
