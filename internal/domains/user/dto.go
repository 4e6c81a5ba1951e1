package user

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// AUTH DTOs
// ========================================

// RegisterRequest - POST /users/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(3, 255),
		),
		// bcrypt only hashes the first 72 bytes
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(1, 72).Error("password must be at most 72 bytes"),
		),
		validation.Field(&r.Role,
			validation.When(r.Role != "", validation.In(RoleBuyer, RoleSeller).Error("role must be BUYER or SELLER")),
		),
	)
}

// Normalize lower-cases the email and defaults the role to BUYER
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	if r.Role == "" {
		r.Role = RoleBuyer
	}
}

// LoginRequest - POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ========================================
// RESPONSE DTOs
// ========================================

// UserDTO is the public view of a user
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// ValidateResponse - GET /users/validate
type ValidateResponse struct {
	Valid bool     `json:"valid"`
	User  *UserDTO `json:"user,omitempty"`
}
