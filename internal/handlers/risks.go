package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"risk-registry/internal/logger"
	"risk-registry/internal/models"
	"risk-registry/internal/repos"
	"risk-registry/internal/validation"
)

type RiskService interface {
	Create(ctx context.Context, in validation.RecordInput) (*models.Risk, error)
	Get(ctx context.Context, id uint) (*models.Risk, error)
	List(ctx context.Context, filter repos.RiskFilter) ([]models.Risk, error)
	Delete(ctx context.Context, id uint) error
}

type RiskHandler struct {
	svc RiskService
	log *logger.Logger
}

func NewRiskHandler(svc RiskService, baseLog *logger.Logger) *RiskHandler {
	return &RiskHandler{svc: svc, log: baseLog.With("handler", "RiskHandler")}
}

// GET /api/risks?risk_type_id=
func (h *RiskHandler) List(c *gin.Context) {
	var filter repos.RiskFilter
	if raw := c.Query("risk_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, detail{Detail: "invalid risk_type_id"})
			return
		}
		rtID := uint(id)
		filter.RiskTypeID = &rtID
	}

	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]riskDTO, 0, len(list))
	for i := range list {
		dto, err := toRiskDTO(&list[i])
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		out = append(out, dto)
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/risks
func (h *RiskHandler) Create(c *gin.Context) {
	var in validation.RecordInput
	if !bindJSON(c, &in) {
		return
	}
	risk, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.write(c, http.StatusCreated, risk)
}

// GET /api/risks/:id
func (h *RiskHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	risk, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.write(c, http.StatusOK, risk)
}

// DELETE /api/risks/:id
func (h *RiskHandler) Delete(c *gin.Context) {
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

func (h *RiskHandler) write(c *gin.Context, status int, risk *models.Risk) {
	dto, err := toRiskDTO(risk)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, dto)
}
