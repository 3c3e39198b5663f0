package members_controllers

import (
	"net/http"
	"strconv"

	members_dto "taskflow/internal/features/members/dto"
	members_services "taskflow/internal/features/members/services"
	projects_dto "taskflow/internal/features/projects/dto"
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/apperrors"
	"taskflow/internal/util/rate_limit"

	"github.com/gin-gonic/gin"
)

type MemberController struct {
	memberService *members_services.MemberService
	signinLimiter *rate_limit.KeyedRateLimiter
}

func (c *MemberController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/members/signin", c.SignIn)
}

func (c *MemberController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	memberRoutes := router.Group("/members")

	memberRoutes.POST("", c.CreateMember)
	memberRoutes.GET("", c.GetUserMembers)
	memberRoutes.GET("/search", c.SearchMembers)
	memberRoutes.GET("/projects", c.GetUserProjectsMembers)
	memberRoutes.GET("/:id", c.GetMember)
	memberRoutes.PUT("/:id", c.UpdateMember)
	memberRoutes.DELETE("/:id", c.DeleteMember)
	memberRoutes.PUT("/:id/password", c.SetPassword)
	memberRoutes.GET("/:id/projects", c.GetMemberProjects)

	router.GET("/projects/:id/members", c.GetProjectMembers)
}

func (c *MemberController) SetSignInLimiter(limiter *rate_limit.KeyedRateLimiter) {
	c.signinLimiter = limiter
}

// SignIn
// @Summary Authenticate a team member
// @Description Check a team member's email and password
// @Tags members
// @Accept json
// @Produce json
// @Param request body members_dto.MemberSignInRequestDTO true "Member credentials"
// @Success 200 {object} members_models.Member
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /members/signin [post]
func (c *MemberController) SignIn(ctx *gin.Context) {
	result, err := c.signinLimiter.CheckRateLimit(ctx.ClientIP())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
		return
	}

	if !result.Allowed {
		ctx.Header("Retry-After", strconv.Itoa(result.RetryAfterSec))
		ctx.JSON(
			http.StatusTooManyRequests,
			gin.H{"error": "Rate limit exceeded. Please try again later."},
		)
		return
	}

	var request members_dto.MemberSignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	member, err := c.memberService.Authenticate(ctx.Request.Context(), &request)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// CreateMember
// @Summary Create a team member
// @Description Create a team member. The name may be sent as name, firstName/lastName or prenom/nom
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body members_dto.CreateMemberRequestDTO true "Member data"
// @Success 200 {object} members_models.Member
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /members [post]
func (c *MemberController) CreateMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request members_dto.CreateMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	member, err := c.memberService.CreateMember(ctx.Request.Context(), &request, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// GetUserMembers
// @Summary List members created by the current user
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} members_dto.ListMembersResponseDTO
// @Failure 401 {object} map[string]string
// @Router /members [get]
func (c *MemberController) GetUserMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	members, err := c.memberService.GetUserMembers(ctx.Request.Context(), user.ID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members_dto.ListMembersResponseDTO{Members: members})
}

// SearchMembers
// @Summary Search members by name prefix
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name prefix"
// @Success 200 {object} members_dto.ListMembersResponseDTO
// @Failure 401 {object} map[string]string
// @Router /members/search [get]
func (c *MemberController) SearchMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	members, err := c.memberService.SearchMembers(ctx.Request.Context(), ctx.Query("q"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members_dto.ListMembersResponseDTO{Members: members})
}

// GetUserProjectsMembers
// @Summary List the members of every project of the current user
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} members_dto.ListMembersResponseDTO
// @Failure 401 {object} map[string]string
// @Router /members/projects [get]
func (c *MemberController) GetUserProjectsMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	members, err := c.memberService.GetUserProjectsMembers(ctx.Request.Context(), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members_dto.ListMembersResponseDTO{Members: members})
}

// GetMember
// @Summary Get a member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} members_models.Member
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{id} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := c.memberService.GetMember(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// UpdateMember
// @Summary Update a member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body members_dto.UpdateMemberRequestDTO true "Fields to change"
// @Success 200 {object} members_models.Member
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{id} [put]
func (c *MemberController) UpdateMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request members_dto.UpdateMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	member, err := c.memberService.UpdateMember(ctx.Request.Context(), ctx.Param("id"), &request, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// DeleteMember
// @Summary Delete a member
// @Tags members
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{id} [delete]
func (c *MemberController) DeleteMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := c.memberService.DeleteMember(ctx.Request.Context(), ctx.Param("id"), user); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// SetPassword
// @Summary Set a member's password
// @Tags members
// @Accept json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body members_dto.SetPasswordRequestDTO true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{id}/password [put]
func (c *MemberController) SetPassword(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request members_dto.SetPasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := c.memberService.SetPassword(ctx.Request.Context(), ctx.Param("id"), request.Password, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password set successfully"})
}

// GetMemberProjects
// @Summary List the projects a member belongs to
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Failure 404 {object} map[string]string
// @Router /members/{id}/projects [get]
func (c *MemberController) GetMemberProjects(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := c.memberService.GetMemberProjects(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects_dto.ListProjectsResponseDTO{Projects: projects})
}

// GetProjectMembers
// @Summary List the members of a project
// @Description Members are returned in the project's order; ids without a member record are skipped
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} members_dto.ListMembersResponseDTO
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id}/members [get]
func (c *MemberController) GetProjectMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	members, err := c.memberService.GetProjectMembers(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members_dto.ListMembersResponseDTO{Members: members})
}
