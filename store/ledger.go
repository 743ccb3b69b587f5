package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/slotbook/slotbook/models"
)

// SlotLedger is the only component touching durable reservation state.
type SlotLedger struct {
	db *gorm.DB
}

func NewSlotLedger(db *gorm.DB) *SlotLedger {
	return &SlotLedger{db: db}
}

// ListReserved returns the slots already taken for (providerID, date). This
// read runs outside any transaction; Reserve re-checks atomically, so a stale
// answer here is harmless.
func (l *SlotLedger) ListReserved(providerID uint, date string) ([]string, error) {
	var slots []string
	err := l.db.Model(&models.Reservation{}).
		Where("provider_id = ? AND date = ?", providerID, date).
		Pluck("time_slot", &slots).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return slots, nil
}

// Reserve inserts the reservation if its slot is free, in one transaction.
// The read is an optimization; the unique index over (provider_id, date,
// time_slot) decides races, so among concurrent attempts exactly one commits
// and the rest see ErrSlotUnavailable.
func (l *SlotLedger) Reserve(res *models.Reservation) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reservation
		err := tx.Where("provider_id = ? AND date = ? AND time_slot = ?",
			res.ProviderID, res.Date, res.TimeSlot).
			First(&existing).Error
		if err == nil {
			return models.ErrSlotUnavailable
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err)
		}

		if err := tx.Create(res).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrSlotUnavailable
			}
			return storageErr(err)
		}
		return nil
	})
}
