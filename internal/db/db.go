package db

import (
	"os"

	"moim/internal/logger"
	"moim/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=moim port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.L.Fatalf("Failed to connect to database: %v", err)
	}

	logger.L.Info("Database connection established")

	if err := Migrate(DB); err != nil {
		logger.L.Fatalf("Failed to migrate database: %v", err)
	}
	logger.L.Info("Database migration completed")
}

// Migrate is separate from Init so tests can run it against their own gorm DB.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
	)
}
