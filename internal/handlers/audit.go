package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"risk-registry/internal/apperr"
	"risk-registry/internal/database"
	"risk-registry/internal/logger"
)

const defaultAuditLimit = 50

type AuditHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditHandler(db *gorm.DB, baseLog *logger.Logger) *AuditHandler {
	return &AuditHandler{db: db, log: baseLog.With("handler", "AuditHandler")}
}

// GET /api/audit?limit=
func (h *AuditHandler) List(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, detail{Detail: "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := database.ListAuditLogs(c.Request.Context(), h.db, limit)
	if err != nil {
		respondError(c, h.log, apperr.Storage(err, "list audit logs"))
		return
	}
	out := make([]auditDTO, 0, len(logs))
	for i := range logs {
		out = append(out, toAuditDTO(&logs[i]))
	}
	c.JSON(http.StatusOK, out)
}
