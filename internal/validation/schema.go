package validation

import (
	"strings"
	"unicode/utf8"

	"risk-registry/internal/apperr"
	"risk-registry/internal/models"
)

type OptionInput struct {
	Value string `json:"value"`
}

type FieldInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	FieldType   string        `json:"field_type"`
	Options     []OptionInput `json:"options"`
}

// SchemaInput is a proposed risk type. A nil Fields means the key was absent.
type SchemaInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Fields      []FieldInput `json:"fields"`
}

// SchemaUpdate changes name and description only. Nil means "leave as is".
type SchemaUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type NormalizedField struct {
	Name        string
	Description string
	FieldType   models.FieldType
	Options     []string
}

type NormalizedSchema struct {
	Name        string
	Description string
	Fields      []NormalizedField
}

// ValidateSchema checks a proposed risk type and returns it normalized:
// names trimmed, field types parsed, options dropped from non-enum fields.
// Duplicate field names are accepted.
func ValidateSchema(in SchemaInput) (*NormalizedSchema, error) {
	errs := apperr.ErrorMap{}
	out := &NormalizedSchema{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}

	checkName(errs, "name", out.Name)

	switch {
	case in.Fields == nil:
		errs.Add("fields", msgRequired)
	case len(in.Fields) == 0:
		errs.Add("fields", msgEmptyList)
	default:
		fieldErrs := make([]apperr.ErrorMap, len(in.Fields))
		out.Fields = make([]NormalizedField, len(in.Fields))
		for i, f := range in.Fields {
			fieldErrs[i] = apperr.ErrorMap{}
			out.Fields[i] = validateField(fieldErrs[i], f)
		}
		errs.AddList("fields", fieldErrs)
	}

	if len(errs) > 0 {
		return nil, apperr.NewValidationError(errs)
	}
	return out, nil
}

func validateField(errs apperr.ErrorMap, in FieldInput) NormalizedField {
	out := NormalizedField{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		FieldType:   models.FieldType(strings.TrimSpace(in.FieldType)),
	}

	checkName(errs, "name", out.Name)

	if in.FieldType == "" {
		errs.Add("field_type", msgRequired)
		return out
	}
	if !out.FieldType.IsValid() {
		errs.Add("field_type", msgInvalidChoice(in.FieldType))
		return out
	}

	if out.FieldType != models.FieldTypeEnum {
		return out
	}

	if len(in.Options) == 0 {
		errs.Add("options", msgOptionsNeeded)
		return out
	}

	optionErrs := make([]apperr.ErrorMap, len(in.Options))
	out.Options = make([]string, len(in.Options))
	for i, o := range in.Options {
		optionErrs[i] = apperr.ErrorMap{}
		out.Options[i] = strings.TrimSpace(o.Value)
		if out.Options[i] == "" {
			optionErrs[i].Add("value", msgBlank)
		}
	}
	errs.AddList("options", optionErrs)
	return out
}

// ValidateSchemaUpdate checks a name/description change. With partial unset
// the name must be supplied.
func ValidateSchemaUpdate(in SchemaUpdate, partial bool) (SchemaUpdate, error) {
	errs := apperr.ErrorMap{}
	out := SchemaUpdate{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		checkName(errs, "name", name)
		out.Name = &name
	} else if !partial {
		errs.Add("name", msgRequired)
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		out.Description = &desc
	}

	if len(errs) > 0 {
		return SchemaUpdate{}, apperr.NewValidationError(errs)
	}
	return out, nil
}

func checkName(errs apperr.ErrorMap, key, name string) {
	switch {
	case name == "":
		errs.Add(key, msgRequired)
	case utf8.RuneCountInString(name) > MaxNameLength:
		errs.Add(key, msgTooLong(MaxNameLength))
	}
}
