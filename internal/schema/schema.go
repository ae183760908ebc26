// Package schema owns the table set of the service.
package schema

import (
	"fmt"

	"carrental/internal/domain/booking"
	"carrental/internal/domain/car"
	"carrental/internal/domain/maintenance"
	"carrental/internal/domain/notification"
	"carrental/internal/domain/profile"
	"carrental/internal/domain/upload"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&profile.Profile{},
		&car.Car{},
		&booking.Booking{},
		&maintenance.Record{},
		&notification.Notification{},
		&upload.Upload{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
