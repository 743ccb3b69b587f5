package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/slotbook/slotbook/models"
	"github.com/slotbook/slotbook/notify"
)

// StartReminderJob schedules an hourly sweep that mails requesters whose
// confirmed session starts in the next hour.
func StartReminderJob(db *gorm.DB, notifier notify.Notifier) {
	c := cron.New()
	_, err := c.AddFunc("0 * * * *", func() {
		sendSessionReminders(db, notifier)
	})
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for session reminders")
}

// sendSessionReminders finds reservations starting one hour from now and
// mails each requester.
func sendSessionReminders(db *gorm.DB, notifier notify.Notifier) {
	target := time.Now().Add(time.Hour)
	date := target.Format("2006-01-02")
	slot := fmt.Sprintf("%d:00", target.Hour())

	var reservations []models.Reservation
	err := db.Preload("Requester").Preload("Provider").
		Where("status = ? AND date = ? AND time_slot = ?", models.StatusConfirmed, date, slot).
		Find(&reservations).Error
	if err != nil {
		log.Printf("Error fetching reservations for reminders: %v", err)
		return
	}

	for _, res := range reservations {
		if err := notifier.SendReminder(res.Requester.Email, res.Date, res.TimeSlot); err != nil {
			log.Printf("Failed to send reminder for reservation %d: %v", res.ID, err)
			continue
		}
		log.Printf("Sent reminder for reservation %d to %s", res.ID, res.Requester.Email)
	}
}
