package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"risk-registry/internal/logger"
	"risk-registry/internal/models"
)

const EntityRiskType = "risk_type"

type RiskTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskTypeRepo(db *gorm.DB, baseLog *logger.Logger) *RiskTypeRepo {
	return &RiskTypeRepo{db: db, log: baseLog.With("repo", "RiskTypeRepo")}
}

// Create inserts rt, its fields, the options of enum fields and the
// field_options join rows. Assigned ids are written back into rt.
func (r *RiskTypeRepo) Create(ctx context.Context, tx *gorm.DB, rt *models.RiskType) error {
	q := pick(r.db, tx).WithContext(ctx)

	if err := q.Omit(clause.Associations).Create(rt).Error; err != nil {
		return err
	}

	for i := range rt.Fields {
		f := &rt.Fields[i]
		f.RiskTypeID = rt.ID
		if err := q.Omit(clause.Associations).Create(f).Error; err != nil {
			return err
		}
		if len(f.Options) == 0 {
			continue
		}

		if err := q.Create(&f.Options).Error; err != nil {
			return err
		}
		links := make([]models.FieldOption, len(f.Options))
		for j, o := range f.Options {
			links[j] = models.FieldOption{FieldID: f.ID, OptionValueID: o.ID}
		}
		if err := q.Create(&links).Error; err != nil {
			return err
		}
	}

	r.log.Debug("risk type created", "risk_type_id", rt.ID, "fields", len(rt.Fields))
	return nil
}

// GetByID loads a risk type with its fields and their options.
func (r *RiskTypeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.RiskType, error) {
	var rt models.RiskType
	err := pick(r.db, tx).WithContext(ctx).
		Preload("Fields", orderByID("fields")).
		Preload("Fields.Options", orderByID("option_values")).
		First(&rt, id).Error
	if err != nil {
		return nil, notFoundOr(err, EntityRiskType, id)
	}
	return &rt, nil
}

// List returns risk types without their fields.
func (r *RiskTypeRepo) List(ctx context.Context, tx *gorm.DB) ([]models.RiskType, error) {
	var out []models.RiskType
	err := pick(r.db, tx).WithContext(ctx).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// UpdateDetails changes the name and description; fields are never touched.
func (r *RiskTypeRepo) UpdateDetails(ctx context.Context, tx *gorm.DB, id uint, name, description string) error {
	res := pick(r.db, tx).WithContext(ctx).
		Model(&models.RiskType{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        name,
			"description": description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, EntityRiskType, id)
	}
	return nil
}

// Delete removes a risk type with everything that hangs off it: the values
// of its risks and fields, the risks, the field_options rows and the fields.
// Option values stay, they may be shared. Run it inside a transaction.
func (r *RiskTypeRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	q := pick(r.db, tx).WithContext(ctx)

	var rt models.RiskType
	if err := q.Select("id").First(&rt, id).Error; err != nil {
		return notFoundOr(err, EntityRiskType, id)
	}

	riskIDs := q.Model(&models.Risk{}).Select("id").Where("risk_type_id = ?", id)
	fieldIDs := q.Model(&models.Field{}).Select("id").Where("risk_type_id = ?", id)

	if err := q.Where("risk_id IN (?) OR field_id IN (?)", riskIDs, fieldIDs).
		Delete(&models.FieldValue{}).Error; err != nil {
		return err
	}
	if err := q.Where("risk_type_id = ?", id).Delete(&models.Risk{}).Error; err != nil {
		return err
	}
	if err := q.Where("field_id IN (?)", fieldIDs).Delete(&models.FieldOption{}).Error; err != nil {
		return err
	}
	if err := q.Where("risk_type_id = ?", id).Delete(&models.Field{}).Error; err != nil {
		return err
	}
	if err := q.Delete(&models.RiskType{}, id).Error; err != nil {
		return err
	}

	r.log.Debug("risk type deleted", "risk_type_id", id)
	return nil
}
