// Package repos is the schema and record store. Every method takes an
// optional transaction handle and falls back to the repo's own connection
// when it is nil.
package repos

import (
	"errors"

	"gorm.io/gorm"

	"risk-registry/internal/apperr"
)

func pick(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

func orderByID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id ASC")
	}
}
