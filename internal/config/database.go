package config

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-screener/internal/repositories"
)

// OpenDialector picks the gorm driver for the configured database.
func OpenDialector(cfg *Config) gorm.Dialector {
	if strings.EqualFold(cfg.Database.Driver, "sqlite") {
		return sqlite.Open(cfg.Database.Path)
	}
	return postgres.Open(cfg.GetDatabaseDSN())
}

func InitDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	logLevel := logger.Silent
	if cfg.IsDevelopment() && cfg.Log.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(OpenDialector(cfg), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnLifetime)

	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if err := repositories.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database migration completed")

	return db, nil
}
