package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"referral-tracker/internal/config"
	"referral-tracker/internal/models"
)

// Open establishes a connection to the configured database
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Connect opens the database described by cfg and runs migrations
func Connect(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := Open(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	log.WithField("driver", cfg.Database.Driver).Info("database connection established")

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("database migrations completed")

	return db, nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Referral{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
