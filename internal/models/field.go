package models

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
	FieldTypeEnum   FieldType = "enum"
)

// AllFieldTypes returns every supported field type in declaration order.
func AllFieldTypes() []FieldType {
	return []FieldType{FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeEnum}
}

func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeEnum:
		return true
	default:
		return false
	}
}

func (t FieldType) String() string {
	return string(t)
}

// Field is one typed slot of a RiskType. Options are only populated for enum fields.
type Field struct {
	ID          uint      `gorm:"primaryKey"`
	RiskTypeID  uint      `gorm:"not null;index"`
	Name        string    `gorm:"size:50;not null"`
	Description string    `gorm:"type:text"`
	FieldType   FieldType `gorm:"type:varchar(10);not null"`

	Options []OptionValue `gorm:"many2many:field_options"`
}

// HasOption reports whether optionID belongs to the field's option set.
func (f *Field) HasOption(optionID uint) bool {
	for _, o := range f.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// OptionValue is one allowed choice of an enum field. Several fields may share it.
type OptionValue struct {
	ID    uint   `gorm:"primaryKey"`
	Value string `gorm:"type:text;not null"`
}

// FieldOption is the join row between Field and OptionValue.
type FieldOption struct {
	FieldID       uint `gorm:"primaryKey"`
	OptionValueID uint `gorm:"primaryKey"`
}

func (FieldOption) TableName() string {
	return "field_options"
}
