package services

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"

	"risk-registry/internal/apperr"
	"risk-registry/internal/database"
	"risk-registry/internal/logger"
	"risk-registry/internal/metrics"
	"risk-registry/internal/models"
	"risk-registry/internal/repos"
	"risk-registry/internal/validation"
)

type RiskTypeStore interface {
	Create(ctx context.Context, tx *gorm.DB, rt *models.RiskType) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.RiskType, error)
	List(ctx context.Context, tx *gorm.DB) ([]models.RiskType, error)
	UpdateDetails(ctx context.Context, tx *gorm.DB, id uint, name, description string) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type OptionValueStore interface {
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type RiskTypeService struct {
	db        *gorm.DB
	riskTypes RiskTypeStore
	options   OptionValueStore
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func NewRiskTypeService(db *gorm.DB, riskTypes RiskTypeStore, options OptionValueStore, baseLog *logger.Logger, m *metrics.Metrics) *RiskTypeService {
	return &RiskTypeService{
		db:        db,
		riskTypes: riskTypes,
		options:   options,
		log:       baseLog.With("service", "RiskTypeService"),
		metrics:   m,
	}
}

// Create validates a schema and writes the risk type, its fields and
// options in one transaction.
func (s *RiskTypeService) Create(ctx context.Context, in validation.SchemaInput) (*models.RiskType, error) {
	w := newWrite(s.log, s.metrics, repos.EntityRiskType, "create")

	w.to(stateValidating)
	schema, err := validation.ValidateSchema(in)
	if err != nil {
		return nil, w.reject(err)
	}

	rt := &models.RiskType{Name: schema.Name, Description: schema.Description}
	for _, f := range schema.Fields {
		field := models.Field{Name: f.Name, Description: f.Description, FieldType: f.FieldType}
		for _, v := range f.Options {
			field.Options = append(field.Options, models.OptionValue{Value: v})
		}
		rt.Fields = append(rt.Fields, field)
	}

	w.to(stateWriting)
	err = database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.riskTypes.Create(ctx, tx, rt); err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, repos.EntityRiskType, rt.ID, models.AuditCreate, map[string]any{
			"name":   rt.Name,
			"fields": len(rt.Fields),
		})
	})
	if err != nil {
		return nil, w.fail(err, goerr.V("name", rt.Name))
	}

	w.commit()
	s.log.Info("risk type created", "risk_type_id", rt.ID, "fields", len(rt.Fields))
	return rt, nil
}

func (s *RiskTypeService) Get(ctx context.Context, id uint) (*models.RiskType, error) {
	return s.riskTypes.GetByID(ctx, nil, id)
}

func (s *RiskTypeService) List(ctx context.Context) ([]models.RiskType, error) {
	return s.riskTypes.List(ctx, nil)
}

// Update changes name and description. With partial set, absent values keep
// their current content; otherwise an absent description is cleared. Fields
// cannot be changed.
func (s *RiskTypeService) Update(ctx context.Context, id uint, in validation.SchemaUpdate, partial bool) (*models.RiskType, error) {
	w := newWrite(s.log, s.metrics, repos.EntityRiskType, "update")

	w.to(stateValidating)
	upd, err := validation.ValidateSchemaUpdate(in, partial)
	if err != nil {
		return nil, w.reject(err)
	}

	w.to(stateWriting)
	err = database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		current, err := s.riskTypes.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		name, desc := current.Name, current.Description
		if upd.Name != nil {
			name = *upd.Name
		}
		if upd.Description != nil {
			desc = *upd.Description
		} else if !partial {
			desc = ""
		}
		if err := s.riskTypes.UpdateDetails(ctx, tx, id, name, desc); err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, repos.EntityRiskType, id, models.AuditUpdate, map[string]any{
			"name": name,
		})
	})
	if err != nil {
		return nil, w.fail(err, goerr.V(apperr.IDKey, id))
	}

	w.commit()
	return s.riskTypes.GetByID(ctx, nil, id)
}

// Delete removes the risk type together with its fields and risks.
func (s *RiskTypeService) Delete(ctx context.Context, id uint) error {
	w := newWrite(s.log, s.metrics, repos.EntityRiskType, "delete")

	w.to(stateWriting)
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.riskTypes.Delete(ctx, tx, id); err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, repos.EntityRiskType, id, models.AuditDelete, nil)
	})
	if err != nil {
		return w.fail(err, goerr.V(apperr.IDKey, id))
	}

	w.commit()
	s.log.Info("risk type deleted", "risk_type_id", id)
	return nil
}

// DeleteOption removes an option value and every field value that chose it.
func (s *RiskTypeService) DeleteOption(ctx context.Context, id uint) error {
	w := newWrite(s.log, s.metrics, repos.EntityOptionValue, "delete")

	w.to(stateWriting)
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.options.Delete(ctx, tx, id); err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, repos.EntityOptionValue, id, models.AuditDelete, nil)
	})
	if err != nil {
		return w.fail(err, goerr.V(apperr.IDKey, id))
	}

	w.commit()
	return nil
}
