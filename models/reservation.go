package models

import (
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
)

// Reservation binds a requester to one of a provider's hourly slots on a date.
// The unique index over (provider_id, date, time_slot) is what guarantees a
// slot is granted to at most one requester; a committed row is never mutated.
type Reservation struct {
	gorm.Model
	ProviderID  uint              `json:"provider_id" gorm:"uniqueIndex:idx_provider_date_slot"`
	Provider    User              `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	RequesterID uint              `json:"requester_id"`
	Requester   User              `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Date        string            `json:"date" gorm:"size:10;uniqueIndex:idx_provider_date_slot"` // "2006-01-02"
	TimeSlot    string            `json:"time_slot" gorm:"size:5;uniqueIndex:idx_provider_date_slot"`
	Status      ReservationStatus `json:"status"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = StatusConfirmed
	}
	return nil
}
