package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nagarseva/nagarseva-api/internal/services"
	"github.com/nagarseva/nagarseva-api/pkg/logger"
)

// respondError maps a service error onto the HTTP surface. Validation maps
// to 400, state-conflict and not-found share 422, integrity failures map to
// 400 except for misconfiguration which is a 500, and infrastructure maps
// to 503.
func respondError(c *gin.Context, err error) {
	svcErr, ok := services.AsServiceError(err)
	if !ok {
		logger.Error("Unclassified error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "internal error"},
		})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindStateConflict:
		status = http.StatusUnprocessableEntity
	case services.KindIntegrity:
		status = http.StatusBadRequest
		if svcErr.Code == services.ErrSignatureSecretNotConfigured.Code {
			status = http.StatusInternalServerError
		}
		logger.Error("Integrity failure", "code", svcErr.Code, "path", c.FullPath(), "error", err)
	case services.KindInfrastructure:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"error": gin.H{"code": svcErr.Code, "message": svcErr.Message},
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{"code": "VALIDATION_FAILED", "message": err.Error()},
	})
}

func paginationMeta(page, perPage int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": (total + int64(perPage) - 1) / int64(perPage),
	}
}

// actor returns the caller identity the identity middleware extracted from
// the upstream auth gateway.
func actor(c *gin.Context) string {
	if v := c.GetString("actor"); v != "" {
		return v
	}
	return "anonymous"
}
