package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/middleware"
)

// auditHandler handles HTTP requests for the activity log.
type auditHandler struct {
	auditService portssvc.AuditQuerySvc
}

// registerAuditRoutes registers activity log routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditQuerySvc) {
	h := &auditHandler{auditService: auditService}

	audit := rg.Group("/audit")
	{
		audit.GET("", h.getHistory)
		audit.GET("/export", h.exportHistory)
	}
}

// getHistory godoc
// @Summary Get activity history
// @Description Returns the filtered, paginated activity log for the user, newest first
// @Tags audit
// @Produce json
// @Param accountID query string false "Filter to one account"
// @Param types query []string false "Activity types to include" collectionFormat(multi)
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param limit query int false "Page size (default 25, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.AuditHistoryResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Security BearerAuth
// @Router /audit [get]
func (h *auditHandler) getHistory(c *gin.Context) {
	var params dto.AuditHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.auditService.GetAccountHistory(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve history")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// exportHistory godoc
// @Summary Export activity history as CSV
// @Description Streams the filtered activity log as a CSV attachment
// @Tags audit
// @Produce text/csv
// @Param accountID query string false "Filter to one account"
// @Param types query []string false "Activity types to include" collectionFormat(multi)
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to export history"
// @Security BearerAuth
// @Router /audit/export [get]
func (h *auditHandler) exportHistory(c *gin.Context) {
	var params dto.AuditHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payload, err := h.auditService.ExportAccountHistory(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to export history")
		return
	}

	filename := fmt.Sprintf("activity-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}
