package main

import (
	"log"

	"github.com/certainlyMohneeesh/AuthSys/config"
	"github.com/certainlyMohneeesh/AuthSys/models"
)

func main() {
	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("migration completed")
}
