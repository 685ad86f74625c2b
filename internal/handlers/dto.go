package handlers

import (
	"time"

	"gorm.io/datatypes"

	"risk-registry/internal/models"
)

type riskTypeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type optionDTO struct {
	ID    uint   `json:"id"`
	Value string `json:"value"`
}

type fieldDTO struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	FieldType   models.FieldType `json:"field_type"`
	Options     []optionDTO      `json:"options"`
}

type riskTypeDetail struct {
	riskTypeSummary
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Fields    []fieldDTO `json:"fields"`
}

type valueDTO struct {
	FieldID uint `json:"field_id"`
	Value   any  `json:"value"`
}

type riskDTO struct {
	ID         uint       `json:"id"`
	RiskTypeID uint       `json:"risk_type_id"`
	CreatedAt  time.Time  `json:"created_at"`
	Values     []valueDTO `json:"values"`
}

type auditDTO struct {
	ID        uint               `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Entity    string             `json:"entity"`
	EntityID  uint               `json:"entity_id"`
	Action    models.AuditAction `json:"action"`
	Details   datatypes.JSON     `json:"details"`
}

func toRiskTypeSummary(rt *models.RiskType) riskTypeSummary {
	return riskTypeSummary{ID: rt.ID, Name: rt.Name, Description: rt.Description}
}

func toRiskTypeDetail(rt *models.RiskType) riskTypeDetail {
	out := riskTypeDetail{
		riskTypeSummary: toRiskTypeSummary(rt),
		CreatedAt:       rt.CreatedAt,
		UpdatedAt:       rt.UpdatedAt,
		Fields:          make([]fieldDTO, 0, len(rt.Fields)),
	}
	for _, f := range rt.Fields {
		fd := fieldDTO{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			FieldType:   f.FieldType,
			Options:     make([]optionDTO, 0, len(f.Options)),
		}
		for _, o := range f.Options {
			fd.Options = append(fd.Options, optionDTO{ID: o.ID, Value: o.Value})
		}
		out.Fields = append(out.Fields, fd)
	}
	return out
}

// toRiskDTO fails when a stored value does not match its field's type.
func toRiskDTO(r *models.Risk) (riskDTO, error) {
	out := riskDTO{
		ID:         r.ID,
		RiskTypeID: r.RiskTypeID,
		CreatedAt:  r.CreatedAt,
		Values:     make([]valueDTO, 0, len(r.Values)),
	}
	for i := range r.Values {
		v, err := r.Values[i].GetValue()
		if err != nil {
			return riskDTO{}, err
		}
		out.Values = append(out.Values, valueDTO{FieldID: r.Values[i].FieldID, Value: v.Wire()})
	}
	return out, nil
}

func toAuditDTO(l *models.AuditLog) auditDTO {
	return auditDTO{
		ID:        l.ID,
		CreatedAt: l.CreatedAt,
		Entity:    l.Entity,
		EntityID:  l.EntityID,
		Action:    l.Action,
		Details:   l.Details,
	}
}
