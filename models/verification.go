package models

import (
	"time"
)

// VerificationCode is a single-use email ownership proof. It is created in the
// same transaction as its user and deleted when redeemed; expiry is checked at
// redemption time, there is no background sweep.
type VerificationCode struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Code      string    `json:"-" gorm:"type:char(6)"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
