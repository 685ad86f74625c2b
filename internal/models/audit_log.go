package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Entity   string         `gorm:"size:50;not null"` // "risk_type", "risk"
	EntityID uint           `gorm:"index"`
	Action   AuditAction    `gorm:"type:varchar(20);not null"`
	Details  datatypes.JSON
}
