package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"risk-registry/internal/config"
	"risk-registry/internal/logger"
	"risk-registry/internal/models"
)

const retryDelay = 2 * time.Second

// Open connects to the configured database, retrying while it comes up.
func Open(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	attempts := cfg.DBConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		log.Info("connecting to database", "driver", cfg.DBDriver, "attempt", i, "max_attempts", attempts)

		db, err = gorm.Open(dialector(cfg), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		})
		if err == nil {
			log.Info("connected to database", "driver", cfg.DBDriver)
			return db, nil
		}

		log.Warn("failed to connect to database", "attempt", i, "error", err)
		if i < attempts {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", attempts, err)
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == config.DriverSQLite {
		return sqlite.Open(sqliteDSN(cfg.DBDSN))
	}
	return postgres.Open(cfg.DBDSN)
}

// sqliteDSN turns on foreign key enforcement unless the DSN sets it already.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate creates or updates every table the registry needs.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Field{}, "Options", &models.FieldOption{}); err != nil {
		return fmt.Errorf("setup field_options join table: %w", err)
	}
	if err := db.AutoMigrate(
		&models.RiskType{},
		&models.OptionValue{},
		&models.Field{},
		&models.FieldOption{},
		&models.Risk{},
		&models.FieldValue{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
