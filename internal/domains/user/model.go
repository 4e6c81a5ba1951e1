package user

import (
	"time"
)

// Role of a marketplace participant
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
)

func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleSeller
}

func (r Role) String() string {
	return string(r)
}

// User is the stored account. PasswordHash never leaves the service.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// ToDTO drops the password hash
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
