// Package apperr defines the error kinds shared by the validators, the
// storage layer and the HTTP surface.
package apperr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrValidation is client-correctable; the concrete error is a *ValidationError.
	ErrValidation = goerr.New("validation failed")
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = goerr.New("not found")
	// ErrInvalidState means an internal invariant was violated.
	ErrInvalidState = goerr.New("invalid state")
	// ErrStorage wraps transaction and commit failures.
	ErrStorage = goerr.New("storage failure")
)

// Context keys for error values
const (
	EntityKey    = "entity"
	IDKey        = "id"
	FieldIDKey   = "field_id"
	FieldTypeKey = "field_type"
)

// NonFieldErrorsKey holds errors that concern a whole submission.
const NonFieldErrorsKey = "non_field_errors"

// Messages is the list of problems reported for one key.
type Messages []string

// ErrorMap is a nested field-path -> messages structure. Values are either
// Messages, ErrorMap or []ErrorMap (one entry per submitted list item).
type ErrorMap map[string]any

func (m ErrorMap) Add(key, msg string) {
	existing, _ := m[key].(Messages)
	m[key] = append(existing, msg)
}

// AddList stores per-item errors under key when at least one item has errors.
func (m ErrorMap) AddList(key string, items []ErrorMap) {
	for _, item := range items {
		if len(item) > 0 {
			m[key] = items
			return
		}
	}
}

type ValidationError struct {
	Errors ErrorMap
}

func NewValidationError(errs ErrorMap) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NotFound(entity string, id uint) error {
	return goerr.Wrap(ErrNotFound, entity+" not found",
		goerr.V(EntityKey, entity),
		goerr.V(IDKey, id))
}

func InvalidState(msg string, options ...goerr.Option) error {
	return goerr.Wrap(ErrInvalidState, msg, options...)
}

// storageCause carries a storage failure. It matches both ErrStorage and
// the original cause under errors.Is.
type storageCause struct {
	cause error
}

func (e storageCause) Error() string   { return e.cause.Error() }
func (e storageCause) Unwrap() []error { return []error{ErrStorage, e.cause} }

// Storage reports cause as ErrStorage, keeping cause in the error chain.
func Storage(cause error, msg string, options ...goerr.Option) error {
	return goerr.Wrap(storageCause{cause: cause}, msg, options...)
}
