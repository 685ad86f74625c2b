package models

import "time"

// RiskType is a user-defined schema. Its field list is fixed once created.
type RiskType struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string `gorm:"size:50;not null"`
	Description string `gorm:"type:text"`

	Fields []Field
}

// FieldByID returns the field of this risk type with the given id.
func (rt *RiskType) FieldByID(id uint) (*Field, bool) {
	for i := range rt.Fields {
		if rt.Fields[i].ID == id {
			return &rt.Fields[i], true
		}
	}
	return nil, false
}
