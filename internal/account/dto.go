package account

import (
	"github.com/woodkari/woodkari-backend/internal/users"
)

// ProfileResponse wraps the profile read; Profile is nil when the lookup
// timed out and the caller should render without it.
type ProfileResponse struct {
	Profile *users.UserDTO `json:"profile"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}

// ChangePasswordRequest carries an authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
