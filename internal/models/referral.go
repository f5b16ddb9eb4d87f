package models

import (
	"time"
)

// ReferralType tags what the referred party intends to do
type ReferralType string

const (
	ReferralTypeBuy  ReferralType = "Buy"
	ReferralTypeSell ReferralType = "Sell"
)

// Valid reports whether t is one of the known referral types
func (t ReferralType) Valid() bool {
	return t == ReferralTypeBuy || t == ReferralTypeSell
}

// Referral links a referring user to a phone number they referred
type Referral struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ReferrerID    uint         `gorm:"not null;index" json:"referrer_id"`
	ReferredPhone string       `gorm:"uniqueIndex;size:20;not null" json:"referred_phone"`
	Purchased     bool         `gorm:"not null;default:false" json:"purchased"`
	Type          ReferralType `gorm:"size:10;not null" json:"type"`
	Timestamp     time.Time    `gorm:"not null" json:"timestamp"`
}

func (Referral) TableName() string {
	return "referrals"
}

// ReferralStats is an aggregate over one referrer's referrals
type ReferralStats struct {
	Total     int64 `json:"total"`
	Purchased int64 `json:"purchased"`
	Buy       int64 `json:"buy"`
	Sell      int64 `json:"sell"`
}
