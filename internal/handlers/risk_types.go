package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"risk-registry/internal/logger"
	"risk-registry/internal/models"
	"risk-registry/internal/validation"
)

type RiskTypeService interface {
	Create(ctx context.Context, in validation.SchemaInput) (*models.RiskType, error)
	Get(ctx context.Context, id uint) (*models.RiskType, error)
	List(ctx context.Context) ([]models.RiskType, error)
	Update(ctx context.Context, id uint, in validation.SchemaUpdate, partial bool) (*models.RiskType, error)
	Delete(ctx context.Context, id uint) error
	DeleteOption(ctx context.Context, id uint) error
}

type RiskTypeHandler struct {
	svc RiskTypeService
	log *logger.Logger
}

func NewRiskTypeHandler(svc RiskTypeService, baseLog *logger.Logger) *RiskTypeHandler {
	return &RiskTypeHandler{svc: svc, log: baseLog.With("handler", "RiskTypeHandler")}
}

// GET /api/risk_types
func (h *RiskTypeHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]riskTypeSummary, 0, len(list))
	for i := range list {
		out = append(out, toRiskTypeSummary(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/risk_types
func (h *RiskTypeHandler) Create(c *gin.Context) {
	var in validation.SchemaInput
	if !bindJSON(c, &in) {
		return
	}
	rt, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toRiskTypeDetail(rt))
}

// GET /api/risk_types/:id
func (h *RiskTypeHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toRiskTypeDetail(rt))
}

// PUT and PATCH /api/risk_types/:id. Submitted fields are ignored.
func (h *RiskTypeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in validation.SchemaUpdate
	if !bindJSON(c, &in) {
		return
	}
	partial := c.Request.Method == http.MethodPatch
	rt, err := h.svc.Update(c.Request.Context(), id, in, partial)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toRiskTypeDetail(rt))
}

// DELETE /api/risk_types/:id
func (h *RiskTypeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/option_values/:id
func (h *RiskTypeHandler) DeleteOption(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteOption(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
