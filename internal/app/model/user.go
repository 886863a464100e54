package model

import (
	"time"
)

type UserRole string

const (
	RoleJobSeeker  UserRole = "jobseeker"
	RoleEmployer   UserRole = "employer"
	RoleAdmin      UserRole = "admin"
	RoleSuperadmin UserRole = "superadmin"
)

// Roles lists every role in ascending privilege order
var Roles = []UserRole{RoleJobSeeker, RoleEmployer, RoleAdmin, RoleSuperadmin}

// IsValid reports whether r is one of the closed set of roles
func (r UserRole) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether r may use the moderation dashboards
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'jobseeker'" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CompanyName  string    `json:"company_name,omitempty"` // employers
	Headline     string    `json:"headline,omitempty"`     // job seekers
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
