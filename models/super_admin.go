package models

import "time"

// SuperAdmin is a back-office operator. Passwords are stored as bcrypt hashes only.
type SuperAdmin struct {
	Base
	Name         string     `gorm:"size:128;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password;size:255;not null" json:"-"`
	Phone        string     `gorm:"size:32" json:"phone"`
	Photo        string     `gorm:"size:1024" json:"photo"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedBy    string     `gorm:"size:64;default:'SYSTEM'" json:"created_by"`
}

// TableName pins the table name.
func (SuperAdmin) TableName() string { return "super_admins" }
