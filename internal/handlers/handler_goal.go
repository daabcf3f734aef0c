package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/middleware"
)

// goalHandler handles HTTP requests for savings goals.
type goalHandler struct {
	goalService portssvc.GoalSvcFacade
}

// registerGoalRoutes registers goal routes.
func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade) {
	h := &goalHandler{goalService: goalService}

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.PATCH("/:id", h.updateGoal)
		goals.DELETE("/:id", h.cancelGoal)
		goals.POST("/:id/contribute", h.contribute)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param goal body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create goal"
// @Security BearerAuth
// @Router /goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create goal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List goals
// @Description Lists the user's goals, high priority first
// @Tags goals
// @Produce json
// @Param includeFinished query bool false "Include completed and cancelled goals"
// @Success 200 {array} dto.GoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list goals"
// @Security BearerAuth
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	includeFinished := c.Query("includeFinished") == "true"
	goals, err := h.goalService.ListGoals(c.Request.Context(), userID, includeFinished)
	if err != nil {
		respondServiceError(c, err, "Failed to list goals")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGoalResponse(goals))
}

// getGoal godoc
// @Summary Get a goal by ID
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve goal"
// @Security BearerAuth
// @Router /goals/{id} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve goal")
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// updateGoal godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param goal body dto.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 409 {object} map[string]string "Goal is not active"
// @Failure 500 {object} map[string]string "Failed to update goal"
// @Security BearerAuth
// @Router /goals/{id} [patch]
func (h *goalHandler) updateGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update goal")
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// cancelGoal godoc
// @Summary Cancel a goal
// @Description Marks an active goal cancelled; goals are never physically removed
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 204 "Cancelled"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 409 {object} map[string]string "Goal is not active"
// @Failure 500 {object} map[string]string "Failed to cancel goal"
// @Security BearerAuth
// @Router /goals/{id} [delete]
func (h *goalHandler) cancelGoal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.goalService.CancelGoal(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to cancel goal")
		return
	}

	c.Status(http.StatusNoContent)
}

// contribute godoc
// @Summary Contribute to a goal
// @Description Moves money from an owned account into the goal, completing it when the target is reached
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param contribution body dto.ContributeRequest true "Funding account and amount"
// @Success 200 {object} dto.ContributeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal or account not found"
// @Failure 409 {object} map[string]string "Goal is not active"
// @Failure 500 {object} map[string]string "Failed to apply contribution"
// @Security BearerAuth
// @Router /goals/{id}/contribute [post]
func (h *goalHandler) contribute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Contribute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, account, err := h.goalService.ContributeToGoal(c.Request.Context(), userID, c.Param("id"), req, requestMeta(c))
	if err != nil {
		respondServiceError(c, err, "Failed to apply contribution")
		return
	}

	c.JSON(http.StatusOK, dto.ContributeResponse{
		Goal:    dto.ToGoalResponse(goal),
		Account: dto.ToAccountResponse(account),
	})
}
