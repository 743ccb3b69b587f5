package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/time/rate"

	"github.com/slotbook/slotbook/auth"
	"github.com/slotbook/slotbook/config"
	"github.com/slotbook/slotbook/controllers"
	"github.com/slotbook/slotbook/cron"
	"github.com/slotbook/slotbook/db"
	"github.com/slotbook/slotbook/middleware"
	"github.com/slotbook/slotbook/notify"
	"github.com/slotbook/slotbook/redis"
	"github.com/slotbook/slotbook/routes"
	"github.com/slotbook/slotbook/services"
	"github.com/slotbook/slotbook/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db.Init(cfg.DatabaseURL)
	db.Migrate()
	redis.InitRedis(cfg.RedisAddr)

	hasher := auth.NewHasher()
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, auth.TokenTTL)
	notifier := notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)

	creds := store.NewCredentialStore(db.DB)
	ledger := store.NewSlotLedger(db.DB)

	var cache services.AvailabilityCache
	if redis.Client != nil {
		cache = redis.NewSlotCache(redis.Client, 30*time.Second)
	}

	identity := services.NewIdentityService(creds, hasher, issuer, notifier)
	booking := services.NewBookingService(ledger, creds, notifier, cache)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(logger.New())

	limiter := middleware.NewRateLimiter(rate.Limit(2), 5)
	routes.SetupAuthRoutes(app, controllers.NewAuthController(identity), limiter)
	routes.SetupBookingRoutes(app, controllers.NewBookingController(booking), cfg.JWTSecret)
	routes.SetupProviderRoutes(app, controllers.NewProfileController(identity), cfg.JWTSecret)

	cron.StartReminderJob(db.DB, notifier)

	log.Fatal(app.Listen(":" + cfg.Port))
}
