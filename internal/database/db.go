package database

import (
	"github.com/RF-YVY/HustleNest/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection initializes a connection pool using GORM. TranslateError is
// on so unique-constraint violations surface as gorm.ErrDuplicatedKey and can
// be mapped to conflict errors instead of leaking driver details.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderHistoryEvent{},
		&model.Setting{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
