package config

import (
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the database named by DB_URL. Without a DB_URL it
// falls back to a local SQLite file so the API runs with zero setup.
func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	var (
		db  *gorm.DB
		err error
	)
	if dsn == "" {
		db, err = gorm.Open(sqlite.Open("mechanicshop.db"), &gorm.Config{})
	} else {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		panic("Failed to connect database")
	}

	DB = db
}
