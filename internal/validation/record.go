package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"risk-registry/internal/apperr"
	"risk-registry/internal/models"
)

// ValueInput is one submitted {field_id, value} pair. Both are kept raw so
// that coercion follows the resolved field type. An empty RawMessage means
// the key was absent.
type ValueInput struct {
	FieldID json.RawMessage `json:"field_id"`
	Value   json.RawMessage `json:"value"`
}

// RecordInput is a submitted risk. RiskTypeID stays raw so that a missing,
// mistyped or non-positive reference is reported on its key.
type RecordInput struct {
	RiskTypeID json.RawMessage `json:"risk_type_id"`
	Values     []ValueInput    `json:"values"`
}

// NormalizedValue is a validated entry ready to be written.
type NormalizedValue struct {
	Field *models.Field
	Value models.Value
}

// InvalidRiskType is the error for a missing or unknown risk_type_id.
func InvalidRiskType() error {
	errs := apperr.ErrorMap{}
	errs.Add("risk_type_id", msgInvalidRiskType)
	return apperr.NewValidationError(errs)
}

// ParseRiskTypeID reads the risk type reference of a submission. Anything
// but a positive integer yields the InvalidRiskType error.
func ParseRiskTypeID(raw json.RawMessage) (uint, error) {
	if len(raw) == 0 {
		return 0, InvalidRiskType()
	}
	n, ok := parseInteger(raw)
	if !ok || n <= 0 {
		return 0, InvalidRiskType()
	}
	return uint(n), nil
}

// ValidateRecord checks values against rt, which must have its fields and
// their options loaded. Per-entry errors are reported in submission order
// next to completeness and uniqueness errors.
func ValidateRecord(rt *models.RiskType, values []ValueInput) ([]NormalizedValue, error) {
	errs := apperr.ErrorMap{}

	if values == nil {
		errs.Add("values", msgRequired)
		return nil, apperr.NewValidationError(errs)
	}

	out := make([]NormalizedValue, len(values))
	entryErrs := make([]apperr.ErrorMap, len(values))
	seen := make(map[uint]int, len(values))
	duplicate := false

	for i, in := range values {
		entryErrs[i] = apperr.ErrorMap{}

		field, ok := resolveField(entryErrs[i], rt, in.FieldID)
		if ok {
			seen[field.ID]++
			if seen[field.ID] > 1 {
				duplicate = true
			}
		}

		if len(in.Value) == 0 {
			entryErrs[i].Add("value", msgRequired)
			continue
		}
		if !ok {
			continue
		}

		v, msg := coerce(field, in.Value)
		if msg != "" {
			entryErrs[i].Add("value", msg)
			continue
		}
		out[i] = NormalizedValue{Field: field, Value: v}
	}
	errs.AddList("values", entryErrs)

	var missing []string
	for _, f := range rt.Fields {
		if seen[f.ID] == 0 {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		errs.Add(apperr.NonFieldErrorsKey, fmt.Sprintf(
			"All fields are required. '%s' fields not found.", strings.Join(missing, "', '")))
	}
	if duplicate {
		errs.Add(apperr.NonFieldErrorsKey, msgDuplicateFields)
	}

	if len(errs) > 0 {
		return nil, apperr.NewValidationError(errs)
	}
	return out, nil
}

func resolveField(errs apperr.ErrorMap, rt *models.RiskType, raw json.RawMessage) (*models.Field, bool) {
	if len(raw) == 0 {
		errs.Add("field_id", msgRequired)
		return nil, false
	}
	id, ok := parseInteger(raw)
	if !ok || id <= 0 {
		errs.Add("field_id", msgInvalidField)
		return nil, false
	}
	field, ok := rt.FieldByID(uint(id))
	if !ok {
		errs.Add("field_id", msgInvalidField)
		return nil, false
	}
	return field, true
}

// coerce converts raw into the variant of field's type. A non-empty message
// describes why it could not.
func coerce(field *models.Field, raw json.RawMessage) (models.Value, string) {
	switch field.FieldType {
	case models.FieldTypeText:
		s, ok := parseText(raw)
		if !ok {
			return nil, msgInvalidText
		}
		return models.TextValue(s), ""

	case models.FieldTypeNumber:
		n, ok := parseInteger(raw)
		if !ok {
			return nil, msgInvalidInteger
		}
		return models.NumberValue(n), ""

	case models.FieldTypeDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, msgInvalidDate
		}
		d, err := civil.ParseDate(strings.TrimSpace(s))
		if err != nil {
			return nil, msgInvalidDate
		}
		return models.DateValue(d), ""

	case models.FieldTypeEnum:
		n, ok := parseInteger(raw)
		if !ok {
			return nil, msgInvalidInteger
		}
		if n <= 0 || !field.HasOption(uint(n)) {
			return nil, msgInvalidOption
		}
		return models.OptionRef{ID: uint(n)}, ""

	default:
		return nil, msgInvalidChoice(string(field.FieldType))
	}
}

func decodeScalar(raw json.RawMessage) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

func parseText(raw json.RawMessage) (string, bool) {
	v, ok := decodeScalar(raw)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// parseInteger accepts JSON integers, integral floats and strings holding
// an integer.
func parseInteger(raw json.RawMessage) (int64, bool) {
	v, ok := decodeScalar(raw)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
