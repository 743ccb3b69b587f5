package models

import (
	"gorm.io/gorm"
)

// ProviderProfile is the provider-only extension of a user account. One row
// per provider; writes are create-or-replace.
type ProviderProfile struct {
	gorm.Model
	UserID     uint    `json:"user_id" gorm:"uniqueIndex"`
	User       User    `json:"-" gorm:"foreignKey:UserID"`
	Expertise  string  `json:"expertise"`
	Price      float64 `json:"price" gorm:"type:decimal(10,2)"`
	PictureURL string  `json:"picture_url"`
}
