package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"

	"risk-registry/internal/apperr"
	"risk-registry/internal/logger"
)

type detail struct {
	Detail string `json:"detail"`
}

var (
	errNotFound   = detail{Detail: "not found"}
	errInternal   = detail{Detail: "internal error"}
	errInvalidID  = detail{Detail: "invalid id"}
	errBadPayload = apperr.ErrorMap{apperr.NonFieldErrorsKey: apperr.Messages{"malformed request body"}}
)

// respondError maps an application error onto a status code. Anything that
// is neither a validation failure nor a missing entity is logged and hidden
// behind a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Errors)
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, errNotFound)
	default:
		fields := []interface{}{"error", err.Error(), "path", c.FullPath()}
		var ge *goerr.Error
		if errors.As(err, &ge) {
			fields = append(fields, "values", ge.Values())
		}
		log.Error("request failed", fields...)
		c.JSON(http.StatusInternalServerError, errInternal)
	}
}

// bindJSON decodes the request body into dst, answering 400 itself when the
// body is not valid JSON for dst.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, errBadPayload)
		return false
	}
	return true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return uint(id), true
}
