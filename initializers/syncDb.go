package initializers

import (
	"fmt"
	"log/slog"

	"github.com/Kariqs/tiendeo-api/models"
	"gorm.io/gorm"
)

func Models() []any {
	return []any{
		&models.User{},
		&models.Store{},
		&models.StoreUser{},
		&models.MeasurementUnit{},
		&models.MasterCategory{},
		&models.MasterProduct{},
		&models.ProductMeasurement{},
		&models.StoreProduct{},
		&models.StoreProductPrice{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderEvent{},
	}
}

func SyncDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	slog.Info("database synced successfully")
	return nil
}
