package database

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"risk-registry/internal/models"
)

// CreateAuditLog records a change on tx, so the entry commits or rolls back
// together with the change itself.
func CreateAuditLog(ctx context.Context, tx *gorm.DB, entity string, entityID uint, action models.AuditAction, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	record := models.AuditLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  datatypes.JSON(raw),
	}
	return tx.WithContext(ctx).Create(&record).Error
}

// ListAuditLogs returns the newest entries first.
func ListAuditLogs(ctx context.Context, db *gorm.DB, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	var logs []models.AuditLog
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
