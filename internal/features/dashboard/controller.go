package dashboard

import (
	"net/http"

	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/apperrors"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dashboardService *DashboardService
}

func (c *DashboardController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", c.GetStats)
}

// GetStats
// @Summary Get dashboard statistics
// @Description Count the current user's projects, active projects, tasks, completed tasks and members, with the three most recent projects and tasks
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardStatsResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /dashboard/stats [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stats, err := c.dashboardService.GetStats(ctx.Request.Context(), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
