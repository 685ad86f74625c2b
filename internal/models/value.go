package models

import "cloud.google.com/go/civil"

// Value is the typed content of a FieldValue. The set of variants is closed:
// TextValue, NumberValue, DateValue and OptionRef.
type Value interface {
	// Type is the field type this variant belongs to.
	Type() FieldType
	// Wire is the external representation: string, int64, "YYYY-MM-DD" or the option id.
	Wire() any
	isValue()
}

type TextValue string

func (TextValue) Type() FieldType { return FieldTypeText }
func (v TextValue) Wire() any     { return string(v) }
func (TextValue) isValue()        {}

type NumberValue int64

func (NumberValue) Type() FieldType { return FieldTypeNumber }
func (v NumberValue) Wire() any     { return int64(v) }
func (NumberValue) isValue()        {}

type DateValue civil.Date

func (DateValue) Type() FieldType { return FieldTypeDate }
func (v DateValue) Wire() any     { return civil.Date(v).String() }
func (DateValue) isValue()        {}

func (v DateValue) String() string { return civil.Date(v).String() }

// OptionRef identifies the chosen OptionValue of an enum field.
type OptionRef struct {
	ID uint
}

func (OptionRef) Type() FieldType { return FieldTypeEnum }
func (v OptionRef) Wire() any     { return v.ID }
func (OptionRef) isValue()        {}
