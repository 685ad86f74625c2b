// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"risk-registry/internal/database"
	"risk-registry/internal/logger"
	"risk-registry/internal/models"
)

// DB returns a migrated SQLite database private to tb, with foreign keys on.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + filepath.Join(tb.TempDir(), "registry.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

// FieldSpec describes a field to seed. Options only apply to enum fields.
type FieldSpec struct {
	Name    string
	Type    models.FieldType
	Options []string
}

// SeedRiskType inserts a risk type with its fields and options directly.
func SeedRiskType(tb testing.TB, db *gorm.DB, name string, fields ...FieldSpec) *models.RiskType {
	tb.Helper()

	rt := &models.RiskType{Name: name}
	if err := db.Create(rt).Error; err != nil {
		tb.Fatalf("seed risk type: %v", err)
	}
	for _, spec := range fields {
		f := models.Field{RiskTypeID: rt.ID, Name: spec.Name, FieldType: spec.Type}
		for _, v := range spec.Options {
			f.Options = append(f.Options, models.OptionValue{Value: v})
		}
		if err := db.Create(&f).Error; err != nil {
			tb.Fatalf("seed field %q: %v", spec.Name, err)
		}
		rt.Fields = append(rt.Fields, f)
	}
	return rt
}

// Count returns the number of rows of model.
func Count(tb testing.TB, db *gorm.DB, model any) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
