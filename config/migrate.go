package config

import (
	"log"

	"github.com/newsline-app/newsline/global"
	"github.com/newsline-app/newsline/models"
)

// MigrateDB runs database migrations
func MigrateDB() {
	err := global.DB.AutoMigrate(
		&models.User{},
		&models.Article{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")
}
