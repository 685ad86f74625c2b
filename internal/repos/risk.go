package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"risk-registry/internal/logger"
	"risk-registry/internal/models"
)

const EntityRisk = "risk"

type RiskFilter struct {
	RiskTypeID *uint
}

type RiskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskRepo(db *gorm.DB, baseLog *logger.Logger) *RiskRepo {
	return &RiskRepo{db: db, log: baseLog.With("repo", "RiskRepo")}
}

// Create inserts risk and its values. Loaded associations (Field,
// ValueOption, RiskType) are never written.
func (r *RiskRepo) Create(ctx context.Context, tx *gorm.DB, risk *models.Risk) error {
	q := pick(r.db, tx).WithContext(ctx)

	if err := q.Omit(clause.Associations).Create(risk).Error; err != nil {
		return err
	}
	if len(risk.Values) == 0 {
		return nil
	}

	for i := range risk.Values {
		risk.Values[i].RiskID = risk.ID
	}
	if err := q.Omit(clause.Associations).Create(&risk.Values).Error; err != nil {
		return err
	}

	r.log.Debug("risk created", "risk_id", risk.ID, "risk_type_id", risk.RiskTypeID, "values", len(risk.Values))
	return nil
}

func (r *RiskRepo) preload(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Values", orderByID("field_values")).
		Preload("Values.Field").
		Preload("Values.ValueOption")
}

// GetByID loads a risk with its values and the fields they belong to.
func (r *RiskRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Risk, error) {
	var risk models.Risk
	if err := r.preload(pick(r.db, tx).WithContext(ctx)).First(&risk, id).Error; err != nil {
		return nil, notFoundOr(err, EntityRisk, id)
	}
	return &risk, nil
}

func (r *RiskRepo) List(ctx context.Context, tx *gorm.DB, filter RiskFilter) ([]models.Risk, error) {
	q := r.preload(pick(r.db, tx).WithContext(ctx)).Order("id asc")
	if filter.RiskTypeID != nil {
		q = q.Where("risk_type_id = ?", *filter.RiskTypeID)
	}

	var out []models.Risk
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a risk and its values. Run it inside a transaction.
func (r *RiskRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	q := pick(r.db, tx).WithContext(ctx)

	var risk models.Risk
	if err := q.Select("id").First(&risk, id).Error; err != nil {
		return notFoundOr(err, EntityRisk, id)
	}

	if err := q.Where("risk_id = ?", id).Delete(&models.FieldValue{}).Error; err != nil {
		return err
	}
	if err := q.Delete(&models.Risk{}, id).Error; err != nil {
		return err
	}

	r.log.Debug("risk deleted", "risk_id", id)
	return nil
}
