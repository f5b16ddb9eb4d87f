package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Phone        string    `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password     string    `gorm:"size:60;not null" json:"-"`
	ReferralCode string    `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
