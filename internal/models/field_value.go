package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/datatypes"

	"risk-registry/internal/apperr"
)

// FieldValue stores the value of one field on one risk. Exactly one of the
// four Value* columns is set, the one selected by Field.FieldType; use
// GetValue and SetValue instead of touching the columns.
type FieldValue struct {
	ID uint `gorm:"primaryKey"`

	RiskID  uint `gorm:"not null;index"`
	FieldID uint `gorm:"not null;index"`
	Field   *Field

	ValueText     *string `gorm:"type:text"`
	ValueNumber   *int64
	ValueDate     *datatypes.Date
	ValueOptionID *uint `gorm:"index"`
	ValueOption   *OptionValue
}

func (fv *FieldValue) GetValue() (Value, error) {
	if fv.Field == nil {
		return nil, apperr.InvalidState("field is not loaded",
			goerr.V(apperr.FieldIDKey, fv.FieldID))
	}

	switch fv.Field.FieldType {
	case FieldTypeText:
		if fv.ValueText != nil {
			return TextValue(*fv.ValueText), nil
		}
	case FieldTypeNumber:
		if fv.ValueNumber != nil {
			return NumberValue(*fv.ValueNumber), nil
		}
	case FieldTypeDate:
		if fv.ValueDate != nil {
			return DateValue(civil.DateOf(time.Time(*fv.ValueDate))), nil
		}
	case FieldTypeEnum:
		if fv.ValueOptionID != nil {
			return OptionRef{ID: *fv.ValueOptionID}, nil
		}
	default:
		return nil, apperr.InvalidState("unknown field type",
			goerr.V(apperr.FieldIDKey, fv.FieldID),
			goerr.V(apperr.FieldTypeKey, fv.Field.FieldType))
	}

	return nil, apperr.InvalidState("value slot is empty",
		goerr.V(apperr.FieldIDKey, fv.FieldID),
		goerr.V(apperr.FieldTypeKey, fv.Field.FieldType))
}

// SetValue writes v into the slot of the field's type and clears the others.
// The content of v is not checked.
func (fv *FieldValue) SetValue(v Value) error {
	if fv.Field == nil {
		return apperr.InvalidState("field is not loaded",
			goerr.V(apperr.FieldIDKey, fv.FieldID))
	}
	if v == nil || v.Type() != fv.Field.FieldType {
		return apperr.InvalidState("value does not match field type",
			goerr.V(apperr.FieldIDKey, fv.FieldID),
			goerr.V(apperr.FieldTypeKey, fv.Field.FieldType))
	}

	fv.ValueText, fv.ValueNumber, fv.ValueDate, fv.ValueOptionID = nil, nil, nil, nil

	switch val := v.(type) {
	case TextValue:
		s := string(val)
		fv.ValueText = &s
	case NumberValue:
		n := int64(val)
		fv.ValueNumber = &n
	case DateValue:
		d := datatypes.Date(civil.Date(val).In(time.UTC))
		fv.ValueDate = &d
	case OptionRef:
		id := val.ID
		fv.ValueOptionID = &id
	}
	return nil
}
