// Package validation checks schema definitions and risk submissions against
// the rules of their risk type. Validators never touch storage; every problem
// found is returned at once as an *apperr.ValidationError.
package validation

import "fmt"

const (
	msgRequired      = "this field is required"
	msgBlank         = "this field may not be blank"
	msgEmptyList     = "this list may not be empty"
	msgOptionsNeeded = "options required"

	msgInvalidField    = "invalid field reference"
	msgInvalidRiskType = "invalid risk type reference"
	msgInvalidText     = "invalid text value"
	msgInvalidInteger  = "a valid integer is required"
	msgInvalidDate     = "date has wrong format, expected YYYY-MM-DD"
	msgInvalidOption   = "invalid value: option does not exist"
	msgDuplicateFields = "duplicate fields are not allowed"
)

// MaxNameLength bounds risk type and field names.
const MaxNameLength = 50

func msgTooLong(limit int) string {
	return fmt.Sprintf("ensure this field has no more than %d characters", limit)
}

func msgInvalidChoice(v string) string {
	return fmt.Sprintf("%q is not a valid choice", v)
}
