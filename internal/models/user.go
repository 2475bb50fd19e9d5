package models

import (
	"time"
)

// User is a back-office operator. Authentication lives outside this service;
// the ledger only records which user performed each operation.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:120;not null" json:"full_name"`
	Phone     string    `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	Role      string    `gorm:"size:10;default:MANAGER;not null" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// User role constants
const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
)
