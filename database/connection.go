package database

import (
	"fmt"
	"log"
	"time"

	"github.com/bomino/xlc-bstt-server/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize initializes the database connection
func Initialize(cfg *config.DatabaseConfig) error {
	return InitializeWithOptions(cfg, false)
}

// InitializeWithOptions initializes the database connection with options
func InitializeWithOptions(cfg *config.DatabaseConfig, disableQueryLog bool) error {
	var err error

	var gormLogger logger.Interface
	if disableQueryLog {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		// Custom logger feeds the in-memory SQL ring for the debug endpoint
		gormLogger = &TracingGormLogger{
			Interface: logger.Default.LogMode(logger.Warn),
		}
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	DB, err = gorm.Open(openDialector(cfg), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established successfully")
	return nil
}

// openDialector selects the GORM driver from configuration.
// Postgres is the production engine; sqlite covers single-host
// deployments and backs the test suite.
func openDialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "sqlite" {
		return sqlite.Open(cfg.GetDSN())
	}
	return postgres.Open(cfg.GetDSN())
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
