package db

import (
	"fmt"

	"github.com/pbittencourt/herald/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model herald persists.
func AllModels() []interface{} {
	return []interface{}{
		&models.List{},
		&models.Group{},
		&models.MessageLog{},
	}
}

// AutoMigrate creates or updates all herald tables.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
