package database

import (
	"log"
	"os"
	"time"

	"go-oilmill/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Connect with GORM (wait for the DB container to come up)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	if err := migrate(); err != nil {
		log.Fatal("Failed to sync database schema:", err)
	}

	log.Println("✅ Database Schema Synced!")
}

// Use swaps in an already-open gorm DB and syncs the schema.
// Tests call this with an in-memory sqlite connection.
func Use(db *gorm.DB) error {
	DB = db
	return migrate()
}

func migrate() error {
	return DB.AutoMigrate(
		&models.AdminUser{},
		&models.Product{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.BillCounter{},
		&models.Review{},
		&models.ContactMessage{},
	)
}
