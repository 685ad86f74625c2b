package database

import (
	"context"

	"gorm.io/gorm"
)

// WithTx runs fn inside one transaction bound to ctx. It commits when fn
// returns nil and rolls back otherwise; a panic in fn rolls back and is
// re-raised.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
