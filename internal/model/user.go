package model

import (
	"github.com/google/uuid"
)

// User represents an authenticated user in the system. Password holds a
// bcrypt hash, a legacy plaintext secret awaiting migration, or nothing.
type User struct {
	BaseModel
	Username        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email           *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Password        string  `gorm:"type:varchar(255);not null;default:''" json:"-"` // Hidden from JSON
	FullName        string  `gorm:"type:varchar(255)" json:"full_name"`
	RoleID          *uint   `gorm:"index" json:"role_id"`
	Role            *Role   `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	ApartmentNumber *int    `json:"apartment_number,omitempty"`
	IsActive        bool    `gorm:"not null" json:"is_active"`
	TokenVersion    string  `gorm:"type:varchar(64);not null;default:''" json:"-"` // rotated on login and logout
}

// HasPrivilege checks if the user's role grants a specific privilege
func (u *User) HasPrivilege(code string) bool {
	if u.Role == nil {
		return false
	}
	for _, p := range u.Role.Privileges {
		if p.Code == code {
			return true
		}
	}
	return false
}

// GetPrivilegeCodes returns a slice of all privilege codes granted by the user's role
func (u *User) GetPrivilegeCodes() []string {
	if u.Role == nil {
		return []string{}
	}
	codes := make([]string, len(u.Role.Privileges))
	for i, p := range u.Role.Privileges {
		codes[i] = p.Code
	}
	return codes
}

func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           *string   `json:"email,omitempty"`
	FullName        string    `json:"full_name"`
	RoleID          *uint     `json:"role_id,omitempty"`
	Role            *Role     `json:"role,omitempty"`
	ApartmentNumber *int      `json:"apartment_number,omitempty"`
	IsActive        bool      `json:"is_active"`
	HasPassword     bool      `json:"has_password"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FullName:        u.FullName,
		RoleID:          u.RoleID,
		Role:            u.Role,
		ApartmentNumber: u.ApartmentNumber,
		IsActive:        u.IsActive,
		HasPassword:     u.Password != "",
	}
}
