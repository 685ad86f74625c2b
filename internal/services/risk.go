package services

import (
	"context"
	"errors"

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

type RiskStore interface {
	Create(ctx context.Context, tx *gorm.DB, risk *models.Risk) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Risk, error)
	List(ctx context.Context, tx *gorm.DB, filter repos.RiskFilter) ([]models.Risk, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type RiskService struct {
	db        *gorm.DB
	riskTypes RiskTypeStore
	risks     RiskStore
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func NewRiskService(db *gorm.DB, riskTypes RiskTypeStore, risks RiskStore, baseLog *logger.Logger, m *metrics.Metrics) *RiskService {
	return &RiskService{
		db:        db,
		riskTypes: riskTypes,
		risks:     risks,
		log:       baseLog.With("service", "RiskService"),
		metrics:   m,
	}
}

// Create validates a record against its risk type and writes the risk with
// all of its values in one transaction. Either everything is stored or
// nothing is.
func (s *RiskService) Create(ctx context.Context, in validation.RecordInput) (*models.Risk, error) {
	w := newWrite(s.log, s.metrics, repos.EntityRisk, "create")

	w.to(stateValidating)
	rtID, err := validation.ParseRiskTypeID(in.RiskTypeID)
	if err != nil {
		return nil, w.reject(err)
	}
	rt, err := s.riskTypes.GetByID(ctx, nil, rtID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, w.reject(validation.InvalidRiskType())
	}
	if err != nil {
		return nil, w.fail(err, goerr.V("risk_type_id", rtID))
	}

	values, err := validation.ValidateRecord(rt, in.Values)
	if err != nil {
		return nil, w.reject(err)
	}

	risk := &models.Risk{RiskTypeID: rt.ID}
	for _, nv := range values {
		fv := models.FieldValue{FieldID: nv.Field.ID, Field: nv.Field}
		if err := fv.SetValue(nv.Value); err != nil {
			return nil, w.fail(err)
		}
		risk.Values = append(risk.Values, fv)
	}

	w.to(stateWriting)
	err = database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.risks.Create(ctx, tx, risk); err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, repos.EntityRisk, risk.ID, models.AuditCreate, map[string]any{
			"risk_type_id": rt.ID,
			"values":       len(risk.Values),
		})
	})
	if err != nil {
		return nil, w.fail(err, goerr.V("risk_type_id", rt.ID))
	}

	w.commit()
	s.log.Info("risk created", "risk_id", risk.ID, "risk_type_id", rt.ID)
	return s.risks.GetByID(ctx, nil, risk.ID)
}

func (s *RiskService) Get(ctx context.Context, id uint) (*models.Risk, error) {
	return s.risks.GetByID(ctx, nil, id)
}

func (s *RiskService) List(ctx context.Context, filter repos.RiskFilter) ([]models.Risk, error) {
	return s.risks.List(ctx, nil, filter)
}

func (s *RiskService) Delete(ctx context.Context, id uint) error {
	w := newWrite(s.log, s.metrics, repos.EntityRisk, "delete")

	w.to(stateWriting)
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.risks.Delete(ctx, tx, id); err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, repos.EntityRisk, id, models.AuditDelete, nil)
	})
	if err != nil {
		return w.fail(err, goerr.V(apperr.IDKey, id))
	}

	w.commit()
	return nil
}
