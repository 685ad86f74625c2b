package models

import "time"

// Risk is one record of a RiskType holding a FieldValue per field.
type Risk struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	RiskTypeID uint `gorm:"not null;index"`
	RiskType   *RiskType

	Values []FieldValue
}
