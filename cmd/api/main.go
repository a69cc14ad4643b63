package main

import (
	"context"
	"log"

	"github.com/certainlyMohneeesh/AuthSys/config"
	"github.com/certainlyMohneeesh/AuthSys/handlers"
	"github.com/certainlyMohneeesh/AuthSys/repository"
	"github.com/certainlyMohneeesh/AuthSys/routes"
	"github.com/certainlyMohneeesh/AuthSys/services"
	"github.com/certainlyMohneeesh/AuthSys/utils"
	"github.com/certainlyMohneeesh/AuthSys/utils/events"
	"github.com/certainlyMohneeesh/AuthSys/utils/mailer"
	"github.com/certainlyMohneeesh/AuthSys/utils/storage"

	"github.com/gofiber/fiber/v2"
)

func main() {
	if err := config.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)

	mailClient := mailer.NewClient(config.LoadEmailConfig())

	bus := events.NewBus(100)
	notifier := events.NewNotifier(bus, mailClient)
	go notifier.Run()

	authService := services.NewAuthService(userRepo, utils.BcryptHasher{}, bus)
	resetService := services.NewResetService(userRepo, resetRepo, utils.BcryptHasher{}, utils.RandomSource{}, mailClient, bus)

	var storageClient *storage.Client
	if storageCfg := config.LoadStorageConfig(); storageCfg.Enabled() {
		storageClient, err = storage.NewClient(context.Background(), storageCfg)
		if err != nil {
			log.Fatalf("storage error: %v", err)
		}
	} else {
		log.Println("avatar storage not configured, avatar routes disabled")
	}

	app := fiber.New()
	routes.Register(app, routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		PasswordReset: handlers.NewPasswordResetHandler(resetService),
		Notification:  handlers.NewNotificationHandler(authService),
		Profile:       handlers.NewProfileHandler(userRepo, storageClient),
	})

	log.Println("API running on :8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatal(err)
	}
}
