package tasks_controllers

import (
	"net/http"

	tasks_dto "taskflow/internal/features/tasks/dto"
	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_services "taskflow/internal/features/tasks/services"
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/apperrors"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	taskService *tasks_services.TaskService
}

func (c *TaskController) RegisterRoutes(router *gin.RouterGroup) {
	taskRoutes := router.Group("/tasks")

	taskRoutes.POST("", c.CreateTask)
	taskRoutes.GET("", c.GetUserTasks)
	taskRoutes.GET("/projects", c.GetUserProjectsTasks)
	taskRoutes.GET("/status/:status", c.GetTasksByStatus)
	taskRoutes.GET("/assigned/:memberId", c.GetAssignedTasks)
	taskRoutes.GET("/:id", c.GetTask)
	taskRoutes.PUT("/:id", c.UpdateTask)
	taskRoutes.DELETE("/:id", c.DeleteTask)
	taskRoutes.PUT("/:id/status", c.SetStatus)
	taskRoutes.PUT("/:id/assignee", c.AssignTask)
	taskRoutes.PUT("/:id/project", c.AttachTask)

	projectRoutes := router.Group("/projects/:id")
	projectRoutes.GET("/tasks", c.GetProjectTasks)
	projectRoutes.GET("/board", c.GetProjectBoard)
}

// CreateTask
// @Summary Create a task
// @Description Create a task, optionally inside a project and assigned to one of its members
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body tasks_dto.CreateTaskRequestDTO true "Task data"
// @Success 200 {object} tasks_models.Task
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request tasks_dto.CreateTaskRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task, err := c.taskService.CreateTask(ctx.Request.Context(), &request, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// GetUserTasks
// @Summary List tasks created by the current user
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tasks_dto.ListTasksResponseDTO
// @Failure 401 {object} map[string]string
// @Router /tasks [get]
func (c *TaskController) GetUserTasks(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := c.taskService.GetUserTasks(ctx.Request.Context(), user.ID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks_dto.ListTasksResponseDTO{Tasks: tasks})
}

// GetUserProjectsTasks
// @Summary List tasks of the current user's projects
// @Description Tasks of every project created by the current user, newest first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tasks_dto.ListTasksResponseDTO
// @Failure 401 {object} map[string]string
// @Router /tasks/projects [get]
func (c *TaskController) GetUserProjectsTasks(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := c.taskService.GetUserProjectsTasks(ctx.Request.Context(), user.ID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks_dto.ListTasksResponseDTO{Tasks: tasks})
}

// GetTasksByStatus
// @Summary List visible tasks in a status column
// @Description "todo" and the legacy "to do" spelling list the same tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status path string true "Task status"
// @Success 200 {object} tasks_dto.ListTasksResponseDTO
// @Failure 401 {object} map[string]string
// @Router /tasks/status/{status} [get]
func (c *TaskController) GetTasksByStatus(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	status := tasks_enums.TaskStatus(ctx.Param("status"))

	tasks, err := c.taskService.GetTasksByStatusForUser(ctx.Request.Context(), status, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks_dto.ListTasksResponseDTO{Tasks: tasks})
}

// GetAssignedTasks
// @Summary List visible tasks assigned to a member
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} tasks_dto.ListTasksResponseDTO
// @Failure 401 {object} map[string]string
// @Router /tasks/assigned/{memberId} [get]
func (c *TaskController) GetAssignedTasks(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := c.taskService.GetMemberAssignedTasksForUser(ctx.Request.Context(), ctx.Param("memberId"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks_dto.ListTasksResponseDTO{Tasks: tasks})
}

// GetTask
// @Summary Get task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} tasks_models.Task
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, err := c.taskService.GetTask(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// UpdateTask
// @Summary Update task
// @Description Merge the given fields into the task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body tasks_dto.UpdateTaskRequestDTO true "Fields to change"
// @Success 200 {object} tasks_models.Task
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request tasks_dto.UpdateTaskRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task, err := c.taskService.UpdateTask(ctx.Request.Context(), ctx.Param("id"), &request, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// DeleteTask
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := c.taskService.DeleteTask(ctx.Request.Context(), ctx.Param("id"), user); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SetStatus
// @Summary Move task to another status
// @Description Any status string is accepted
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body tasks_dto.SetStatusRequestDTO true "New status"
// @Success 200 {object} tasks_models.Task
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id}/status [put]
func (c *TaskController) SetStatus(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request tasks_dto.SetStatusRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task, err := c.taskService.SetStatus(ctx.Request.Context(), ctx.Param("id"), request.Status, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// AssignTask
// @Summary Assign task to a project member
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body tasks_dto.AssignTaskRequestDTO true "Member to assign"
// @Success 200 {object} tasks_models.Task
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tasks/{id}/assignee [put]
func (c *TaskController) AssignTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request tasks_dto.AssignTaskRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task, err := c.taskService.AssignToMember(ctx.Request.Context(), ctx.Param("id"), request.MemberID, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// AttachTask
// @Summary Attach task to a project
// @Description Replaces the task's current project
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body tasks_dto.AttachTaskRequestDTO true "Target project"
// @Success 200 {object} tasks_models.Task
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tasks/{id}/project [put]
func (c *TaskController) AttachTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request tasks_dto.AttachTaskRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	task, err := c.taskService.AttachToProject(ctx.Request.Context(), ctx.Param("id"), request.ProjectID, user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// GetProjectTasks
// @Summary List project tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} tasks_dto.ListTasksResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id}/tasks [get]
func (c *TaskController) GetProjectTasks(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := c.taskService.GetProjectTasksForUser(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks_dto.ListTasksResponseDTO{Tasks: tasks})
}

// GetProjectBoard
// @Summary Get project board
// @Description Project tasks grouped into todo, doing, done and other columns
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} tasks_dto.BoardResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id}/board [get]
func (c *TaskController) GetProjectBoard(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	board, err := c.taskService.GetProjectBoard(ctx.Request.Context(), ctx.Param("id"), user)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, board)
}
