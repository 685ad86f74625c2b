package validation

import (
	"encoding/json"
	"math"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"risk-registry/internal/apperr"
	"risk-registry/internal/models"
)

func carRiskType() *models.RiskType {
	return &models.RiskType{
		ID:   1,
		Name: "Car",
		Fields: []models.Field{
			{ID: 1, Name: "Name", FieldType: models.FieldTypeText},
			{ID: 2, Name: "Model No.", FieldType: models.FieldTypeNumber},
			{ID: 3, Name: "Purchase Date", FieldType: models.FieldTypeDate},
			{ID: 4, Name: "Car Type", FieldType: models.FieldTypeEnum, Options: []models.OptionValue{
				{ID: 10, Value: "Sedan"},
				{ID: 11, Value: "SUV"},
			}},
		},
	}
}

func entry(fieldID, value string) ValueInput {
	return ValueInput{FieldID: json.RawMessage(fieldID), Value: json.RawMessage(value)}
}

func TestValidateRecord_AllTypes(t *testing.T) {
	out, err := ValidateRecord(carRiskType(), []ValueInput{
		entry(`1`, `"Hyundai"`),
		entry(`2`, `12345`),
		entry(`3`, `"1970-01-01"`),
		entry(`4`, `11`),
	})
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, models.TextValue("Hyundai"), out[0].Value)
	assert.Equal(t, models.NumberValue(12345), out[1].Value)
	assert.Equal(t, models.DateValue(civil.Date{Year: 1970, Month: 1, Day: 1}), out[2].Value)
	assert.Equal(t, models.OptionRef{ID: 11}, out[3].Value)
	assert.Equal(t, "Car Type", out[3].Field.Name)
}

func TestValidateRecord_Coercion(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  models.Value
		msg   string
	}{
		{name: "text from number", field: `1`, value: `42`, want: models.TextValue("42")},
		{name: "text rejects bool", field: `1`, value: `true`, msg: "invalid text value"},
		{name: "text rejects object", field: `1`, value: `{"a":1}`, msg: "invalid text value"},
		{name: "text rejects null", field: `1`, value: `null`, msg: "invalid text value"},
		{name: "number from string", field: `2`, value: `"77"`, want: models.NumberValue(77)},
		{name: "number from integral float", field: `2`, value: `5.0`, want: models.NumberValue(5)},
		{name: "number rejects fraction", field: `2`, value: `5.5`, msg: "a valid integer is required"},
		{name: "number rejects 2^63", field: `2`, value: `9223372036854775808`, msg: "a valid integer is required"},
		{name: "number rejects 2^63 as float", field: `2`, value: `9.223372036854775808e18`, msg: "a valid integer is required"},
		{name: "number accepts min int64", field: `2`, value: `-9223372036854775808`, want: models.NumberValue(math.MinInt64)},
		{name: "number rejects word", field: `2`, value: `"12a"`, msg: "a valid integer is required"},
		{name: "date rejects short form", field: `3`, value: `"1970-1-1"`, msg: "date has wrong format, expected YYYY-MM-DD"},
		{name: "date rejects number", field: `3`, value: `19700101`, msg: "date has wrong format, expected YYYY-MM-DD"},
		{name: "date rejects impossible day", field: `3`, value: `"2021-02-30"`, msg: "date has wrong format, expected YYYY-MM-DD"},
		{name: "enum from string id", field: `4`, value: `"10"`, want: models.OptionRef{ID: 10}},
		{name: "enum rejects label", field: `4`, value: `"Sedan"`, msg: "a valid integer is required"},
		{name: "enum rejects non member", field: `4`, value: `99`, msg: "invalid value: option does not exist"},
		{name: "enum rejects 2^63", field: `4`, value: `9223372036854775808`, msg: "a valid integer is required"},
		{name: "enum rejects zero", field: `4`, value: `0`, msg: "invalid value: option does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &models.RiskType{Fields: carRiskType().Fields}
			field, ok := rt.FieldByID(parseFieldID(t, tt.field))
			require.True(t, ok)
			rt.Fields = []models.Field{*field}

			out, err := ValidateRecord(rt, []ValueInput{entry(tt.field, tt.value)})
			if tt.msg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, out[0].Value)
				return
			}
			errs := requireValidationErrors(t, err)
			values := errs["values"].([]apperr.ErrorMap)
			assert.Equal(t, apperr.Messages{tt.msg}, values[0]["value"])
			assert.NotContains(t, errs, apperr.NonFieldErrorsKey)
		})
	}
}

func parseFieldID(t *testing.T, raw string) uint {
	t.Helper()
	n, ok := parseInteger(json.RawMessage(raw))
	require.True(t, ok)
	return uint(n)
}

func TestValidateRecord_MissingFieldsAreNamed(t *testing.T) {
	_, err := ValidateRecord(carRiskType(), []ValueInput{
		entry(`1`, `"Hyundai"`),
		entry(`3`, `"2020-05-01"`),
	})

	errs := requireValidationErrors(t, err)
	assert.NotContains(t, errs, "values")
	assert.Equal(t, apperr.Messages{
		"All fields are required. 'Model No.', 'Car Type' fields not found.",
	}, errs[apperr.NonFieldErrorsKey])
}

func TestValidateRecord_EmptySubmissionNamesEveryField(t *testing.T) {
	_, err := ValidateRecord(carRiskType(), []ValueInput{})
	errs := requireValidationErrors(t, err)
	assert.Equal(t, apperr.Messages{
		"All fields are required. 'Name', 'Model No.', 'Purchase Date', 'Car Type' fields not found.",
	}, errs[apperr.NonFieldErrorsKey])

	_, err = ValidateRecord(carRiskType(), nil)
	errs = requireValidationErrors(t, err)
	assert.Equal(t, apperr.Messages{"this field is required"}, errs["values"])
}

func TestValidateRecord_DuplicateFields(t *testing.T) {
	for _, second := range []string{`"Hyundai"`, `"Honda"`} {
		_, err := ValidateRecord(carRiskType(), []ValueInput{
			entry(`1`, `"Hyundai"`),
			entry(`2`, `1`),
			entry(`3`, `"2020-05-01"`),
			entry(`4`, `10`),
			entry(`1`, second),
		})

		errs := requireValidationErrors(t, err)
		assert.NotContains(t, errs, "values")
		assert.Equal(t, apperr.Messages{"duplicate fields are not allowed"}, errs[apperr.NonFieldErrorsKey])
	}
}

func TestValidateRecord_ReportsEveryEntryTogether(t *testing.T) {
	_, err := ValidateRecord(carRiskType(), []ValueInput{
		entry(`1`, `"Hyundai"`),
		entry(`2`, `"twelve"`),
		entry(`3`, `"01/02/2020"`),
		entry(`4`, `12`),
	})

	errs := requireValidationErrors(t, err)
	values := errs["values"].([]apperr.ErrorMap)
	require.Len(t, values, 4)
	assert.Empty(t, values[0])
	assert.Equal(t, apperr.Messages{"a valid integer is required"}, values[1]["value"])
	assert.Equal(t, apperr.Messages{"date has wrong format, expected YYYY-MM-DD"}, values[2]["value"])
	assert.Equal(t, apperr.Messages{"invalid value: option does not exist"}, values[3]["value"])
	assert.NotContains(t, errs, apperr.NonFieldErrorsKey)
}

func TestValidateRecord_InvalidFieldReference(t *testing.T) {
	_, err := ValidateRecord(carRiskType(), []ValueInput{
		entry(`1`, `"Hyundai"`),
		entry(`2`, `1`),
		entry(`3`, `"2020-05-01"`),
		entry(`4`, `10`),
		entry(`999`, `"x"`),
		entry(`"abc"`, `"x"`),
		{Value: json.RawMessage(`"x"`)},
		{FieldID: json.RawMessage(`1`)},
	})

	errs := requireValidationErrors(t, err)
	values := errs["values"].([]apperr.ErrorMap)
	require.Len(t, values, 8)
	for i := 0; i < 4; i++ {
		assert.Empty(t, values[i])
	}
	assert.Equal(t, apperr.Messages{"invalid field reference"}, values[4]["field_id"])
	assert.Equal(t, apperr.Messages{"invalid field reference"}, values[5]["field_id"])
	assert.Equal(t, apperr.Messages{"this field is required"}, values[6]["field_id"])
	assert.Equal(t, apperr.Messages{"this field is required"}, values[7]["value"])
	assert.Equal(t, apperr.Messages{"duplicate fields are not allowed"}, errs[apperr.NonFieldErrorsKey])
}

func TestValidateRecord_ForeignFieldIsNotResolved(t *testing.T) {
	rt := carRiskType()
	rt.Fields = rt.Fields[:1]

	_, err := ValidateRecord(rt, []ValueInput{
		entry(`1`, `"Hyundai"`),
		entry(`2`, `1`),
	})

	errs := requireValidationErrors(t, err)
	values := errs["values"].([]apperr.ErrorMap)
	assert.Equal(t, apperr.Messages{"invalid field reference"}, values[1]["field_id"])
}

func TestInvalidRiskType(t *testing.T) {
	errs := requireValidationErrors(t, InvalidRiskType())
	assert.Equal(t, apperr.Messages{"invalid risk type reference"}, errs["risk_type_id"])
}

func TestParseRiskTypeID(t *testing.T) {
	id, err := ParseRiskTypeID(json.RawMessage(`7`))
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	id, err = ParseRiskTypeID(json.RawMessage(`"7"`))
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	for _, raw := range []string{``, `null`, `"seven"`, `-3`, `0`, `1.5`, `9223372036854775808`, `[1]`} {
		_, err := ParseRiskTypeID(json.RawMessage(raw))
		errs := requireValidationErrors(t, err)
		assert.Equal(t, apperr.Messages{"invalid risk type reference"}, errs["risk_type_id"], raw)
	}
}
