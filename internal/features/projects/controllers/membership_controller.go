package projects_controllers

import (
	"net/http"

	projects_dto "taskflow/internal/features/projects/dto"
	projects_services "taskflow/internal/features/projects/services"
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/apperrors"

	"github.com/gin-gonic/gin"
)

type MembershipController struct {
	membershipService *projects_services.MembershipService
}

func (c *MembershipController) RegisterRoutes(router *gin.RouterGroup) {
	projectRoutes := router.Group("/projects/:id")

	projectRoutes.POST("/members", c.AddMember)
	projectRoutes.DELETE("/members/:memberId", c.RemoveMember)
}

// AddMember
// @Summary Add member to project
// @Tags project-membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body projects_dto.AddMemberRequestDTO true "Member to add"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /projects/{id}/members [post]
func (c *MembershipController) AddMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request projects_dto.AddMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := c.membershipService.AddMember(ctx.Request.Context(), ctx.Param("id"), request.MemberID, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member added successfully"})
}

// RemoveMember
// @Summary Remove member from project
// @Tags project-membership
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /projects/{id}/members/{memberId} [delete]
func (c *MembershipController) RemoveMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := c.membershipService.RemoveMember(ctx.Request.Context(), ctx.Param("id"), ctx.Param("memberId"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
