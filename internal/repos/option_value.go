package repos

import (
	"context"

	"gorm.io/gorm"

	"risk-registry/internal/logger"
	"risk-registry/internal/models"
)

const EntityOptionValue = "option_value"

type OptionValueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOptionValueRepo(db *gorm.DB, baseLog *logger.Logger) *OptionValueRepo {
	return &OptionValueRepo{db: db, log: baseLog.With("repo", "OptionValueRepo")}
}

// Delete removes an option, its field_options rows and every field value
// that chose it. Run it inside a transaction.
func (r *OptionValueRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	q := pick(r.db, tx).WithContext(ctx)

	var opt models.OptionValue
	if err := q.Select("id").First(&opt, id).Error; err != nil {
		return notFoundOr(err, EntityOptionValue, id)
	}

	if err := q.Where("value_option_id = ?", id).Delete(&models.FieldValue{}).Error; err != nil {
		return err
	}
	if err := q.Where("option_value_id = ?", id).Delete(&models.FieldOption{}).Error; err != nil {
		return err
	}
	if err := q.Delete(&models.OptionValue{}, id).Error; err != nil {
		return err
	}

	r.log.Debug("option value deleted", "option_value_id", id)
	return nil
}
