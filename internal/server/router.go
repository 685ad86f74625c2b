package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"risk-registry/internal/handlers"
	"risk-registry/internal/logger"
	"risk-registry/internal/metrics"
	"risk-registry/internal/middleware"
	"risk-registry/internal/repos"
	"risk-registry/internal/services"
)

// NewRouter wires repositories, services and handlers over db and registers
// the JSON API. m may be nil.
func NewRouter(db *gorm.DB, log *logger.Logger, m *metrics.Metrics) *gin.Engine {
	riskTypeRepo := repos.NewRiskTypeRepo(db, log)
	riskRepo := repos.NewRiskRepo(db, log)
	optionRepo := repos.NewOptionValueRepo(db, log)

	riskTypeSvc := services.NewRiskTypeService(db, riskTypeRepo, optionRepo, log, m)
	riskSvc := services.NewRiskService(db, riskTypeRepo, riskRepo, log, m)

	riskTypes := handlers.NewRiskTypeHandler(riskTypeSvc, log)
	risks := handlers.NewRiskHandler(riskSvc, log)
	audit := handlers.NewAuditHandler(db, log)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(m),
	)

	api := r.Group("/api")

	// RISK TYPES
	api.GET("/risk_types", riskTypes.List)
	api.POST("/risk_types", riskTypes.Create)
	api.GET("/risk_types/:id", riskTypes.Get)
	api.PUT("/risk_types/:id", riskTypes.Update)
	api.PATCH("/risk_types/:id", riskTypes.Update)
	api.DELETE("/risk_types/:id", riskTypes.Delete)
	api.DELETE("/option_values/:id", riskTypes.DeleteOption)

	// RISKS
	api.GET("/risks", risks.List)
	api.POST("/risks", risks.Create)
	api.GET("/risks/:id", risks.Get)
	api.DELETE("/risks/:id", risks.Delete)

	// AUDIT
	api.GET("/audit", audit.List)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}
