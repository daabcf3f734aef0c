package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/middleware"
)

// reportingHandler handles read-only report requests.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes registers report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
	}
}

// getSummary godoc
// @Summary Cash flow summary
// @Description Aggregates per-month income and expense plus total active balance
// @Tags reports
// @Produce json
// @Param from query string false "RFC3339 lower bound (default 6 months back)"
// @Param to query string false "RFC3339 upper bound (default now)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build summary"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.reportingService.GetCashFlowSummary(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, resp)
}
