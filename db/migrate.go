package db

import (
	"fmt"
	"log"

	"github.com/slotbook/slotbook/models"
)

// Migrate runs AutoMigrate only when explicitly called. The composite unique
// index on reservations and the unique email on users come from the model
// tags; they are the constraints the stores rely on.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
		&models.ProviderProfile{},
		&models.Reservation{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
