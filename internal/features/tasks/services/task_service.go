package tasks_services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	audit_logs "taskflow/internal/features/audit_logs"
	projects_models "taskflow/internal/features/projects/models"
	projects_services "taskflow/internal/features/projects/services"
	tasks_dto "taskflow/internal/features/tasks/dto"
	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
	tasks_repositories "taskflow/internal/features/tasks/repositories"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/storage"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepository  *tasks_repositories.TaskRepository
	projectService  *projects_services.ProjectService
	auditLogService *audit_logs.AuditLogService
	logger          *slog.Logger
}

func (s *TaskService) CreateTask(
	ctx context.Context,
	request *tasks_dto.CreateTaskRequestDTO,
	creator *users_models.User,
) (*tasks_models.Task, error) {
	if creator == nil {
		return nil, apperrors.Unauthenticated()
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, apperrors.Validation("title", "task title is required")
	}

	status := request.Status
	if status == "" {
		status = tasks_enums.TaskStatusTodo
	}

	projectID := nonEmptyOrNil(request.ProjectID)
	assignedTo := nonEmptyOrNil(request.AssignedTo)

	if projectID != nil {
		project, err := s.getReferencedProject(ctx, *projectID, creator)
		if err != nil {
			return nil, err
		}

		if assignedTo != nil {
			if err := tasks_models.ValidateAssignment(project, *assignedTo); err != nil {
				return nil, err
			}
		}
	} else if assignedTo != nil {
		return nil, tasks_models.ValidateAssignment(nil, *assignedTo)
	}

	attachments := request.Attachments
	if attachments == nil {
		attachments = []tasks_models.Attachment{}
	}

	now := time.Now().UTC()
	task := &tasks_models.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: request.Description,
		Status:      status,
		ProjectID:   projectID,
		AssignedTo:  assignedTo,
		DueDate:     utcOrNil(request.DueDate),
		VoiceNote:   request.VoiceNote,
		Attachments: attachments,
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepository.CreateTask(ctx, task); err != nil {
		return nil, apperrors.StoreFailure("create task", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task created: %s", task.Title),
		&creator.ID,
		task.ProjectID,
	)

	return task, nil
}

// GetTaskByID returns nil for a missing id.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*tasks_models.Task, error) {
	task, err := s.taskRepository.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.StoreFailure("get task", err)
	}

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID string, user *users_models.User) (*tasks_models.Task, error) {
	return s.getAccessibleTask(ctx, taskID, user)
}

func (s *TaskService) UpdateTask(
	ctx context.Context,
	taskID string,
	request *tasks_dto.UpdateTaskRequestDTO,
	user *users_models.User,
) (*tasks_models.Task, error) {
	task, err := s.getAccessibleTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)

	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			return nil, apperrors.Validation("title", "task title is required")
		}
		fields["title"] = title
	}
	if request.Description != nil {
		fields["description"] = *request.Description
	}
	if request.Status != nil {
		fields["status"] = *request.Status
	}
	var unset []string

	if request.ClearDueDate {
		unset = append(unset, "dueDate")
	} else if request.DueDate != nil {
		fields["dueDate"] = utcOrNil(request.DueDate)
	}
	if request.ClearVoiceNote {
		unset = append(unset, "voiceNote")
	} else if request.VoiceNote != nil {
		fields["voiceNote"] = tasks_repositories.VoiceNoteToValue(request.VoiceNote)
	}
	if request.Attachments != nil {
		fields["attachments"] = tasks_repositories.AttachmentsToValue(*request.Attachments)
	}

	if err := s.taskRepository.UpdateTask(ctx, taskID, fields, unset); err != nil {
		return nil, apperrors.FromStore("update task", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task updated: %s", task.Title),
		&user.ID,
		task.ProjectID,
	)

	return s.getExistingTask(ctx, taskID)
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID string, user *users_models.User) error {
	task, err := s.getAccessibleTask(ctx, taskID, user)
	if err != nil {
		return err
	}

	if err := s.taskRepository.DeleteTask(ctx, taskID); err != nil {
		return apperrors.FromStore("delete task", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task deleted: %s", task.Title),
		&user.ID,
		task.ProjectID,
	)

	return nil
}

// SetStatus writes only status and updatedAt. Any string is accepted,
// transitions are not restricted.
func (s *TaskService) SetStatus(
	ctx context.Context,
	taskID string,
	status tasks_enums.TaskStatus,
	user *users_models.User,
) (*tasks_models.Task, error) {
	task, err := s.getAccessibleTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"status": status}
	if err := s.taskRepository.UpdateTask(ctx, taskID, fields, nil); err != nil {
		return nil, apperrors.FromStore("set task status", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task %s moved from %q to %q", task.Title, task.Status, status),
		&user.ID,
		task.ProjectID,
	)

	return s.getExistingTask(ctx, taskID)
}

// AssignToMember assigns the task when memberID belongs to the task's
// project. The write is conditioned on the task still being in the project
// whose membership was checked.
func (s *TaskService) AssignToMember(
	ctx context.Context,
	taskID string,
	memberID string,
	user *users_models.User,
) (*tasks_models.Task, error) {
	task, err := s.getAccessibleTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	var project *projects_models.Project
	if task.ProjectID != nil {
		project, err = s.projectService.GetProjectByID(ctx, *task.ProjectID)
		if err != nil {
			return nil, err
		}
	}

	if err := tasks_models.ValidateAssignment(project, memberID); err != nil {
		return nil, err
	}

	err = s.taskRepository.UpdateTask(ctx, taskID,
		map[string]any{"assignedTo": memberID},
		nil,
		storage.Where("projectId", storage.OpEqual, project.ID),
	)
	if errors.Is(err, storage.ErrConditionFailed) {
		return nil, apperrors.InvalidReference("task was moved to another project during assignment")
	}
	if err != nil {
		return nil, apperrors.FromStore("assign task", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task %s assigned to member %s", task.Title, memberID),
		&user.ID,
		task.ProjectID,
	)

	return s.getExistingTask(ctx, taskID)
}

// AttachToProject moves the task into projectID. A previous project is
// replaced and the move is recorded in the audit log of both projects. An
// assignee who is not a member of the target project is dropped in the
// same write.
func (s *TaskService) AttachToProject(
	ctx context.Context,
	taskID string,
	projectID string,
	user *users_models.User,
) (*tasks_models.Task, error) {
	task, err := s.getAccessibleTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	project, err := s.getReferencedProject(ctx, projectID, user)
	if err != nil {
		return nil, err
	}

	var unset []string
	if task.AssignedTo != nil && !project.HasMember(*task.AssignedTo) {
		unset = append(unset, "assignedTo")
	}

	if err := s.taskRepository.UpdateTask(ctx, taskID, map[string]any{"projectId": projectID}, unset); err != nil {
		return nil, apperrors.FromStore("attach task", err)
	}

	if task.ProjectID != nil && *task.ProjectID != projectID {
		s.auditLogService.WriteAuditLog(
			fmt.Sprintf("Task %s moved to project %s", task.Title, projectID),
			&user.ID,
			task.ProjectID,
		)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Task %s attached to project", task.Title),
		&user.ID,
		&projectID,
	)

	return s.getExistingTask(ctx, taskID)
}

// GetProjectTasks lists tasks with the given projectId, newest first. An
// empty id yields an empty list.
func (s *TaskService) GetProjectTasks(ctx context.Context, projectID string) ([]*tasks_models.Task, error) {
	if projectID == "" {
		return []*tasks_models.Task{}, nil
	}

	tasks, err := s.taskRepository.GetTasksByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.StoreFailure("list project tasks", err)
	}

	return tasks, nil
}

func (s *TaskService) GetProjectTasksForUser(
	ctx context.Context,
	projectID string,
	user *users_models.User,
) ([]*tasks_models.Task, error) {
	if _, err := s.projectService.GetProject(ctx, projectID, user); err != nil {
		return nil, err
	}

	return s.GetProjectTasks(ctx, projectID)
}

func (s *TaskService) GetUserTasks(ctx context.Context, userID string) ([]*tasks_models.Task, error) {
	if userID == "" {
		return []*tasks_models.Task{}, nil
	}

	tasks, err := s.taskRepository.GetTasksCreatedBy(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreFailure("list user tasks", err)
	}

	return tasks, nil
}

// GetTasksByStatus lists tasks in the column of status, so "to do" and
// "todo" return the same tasks.
func (s *TaskService) GetTasksByStatus(ctx context.Context, status tasks_enums.TaskStatus) ([]*tasks_models.Task, error) {
	if status == "" {
		return []*tasks_models.Task{}, nil
	}

	tasks, err := s.taskRepository.GetTasksByStatuses(ctx, status.StoredVariants())
	if err != nil {
		return nil, apperrors.StoreFailure("list tasks by status", err)
	}

	return tasks, nil
}

// GetTasksByStatusForUser keeps only the tasks the user may see.
func (s *TaskService) GetTasksByStatusForUser(
	ctx context.Context,
	status tasks_enums.TaskStatus,
	user *users_models.User,
) ([]*tasks_models.Task, error) {
	tasks, err := s.GetTasksByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	return s.filterVisible(ctx, tasks, user)
}

func (s *TaskService) GetMemberAssignedTasks(ctx context.Context, memberID string) ([]*tasks_models.Task, error) {
	if memberID == "" {
		return []*tasks_models.Task{}, nil
	}

	tasks, err := s.taskRepository.GetTasksAssignedTo(ctx, memberID)
	if err != nil {
		return nil, apperrors.StoreFailure("list assigned tasks", err)
	}

	return tasks, nil
}

func (s *TaskService) GetMemberAssignedTasksForUser(
	ctx context.Context,
	memberID string,
	user *users_models.User,
) ([]*tasks_models.Task, error) {
	tasks, err := s.GetMemberAssignedTasks(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return s.filterVisible(ctx, tasks, user)
}

// GetUserProjectsTasks lists the tasks of every project the user created.
func (s *TaskService) GetUserProjectsTasks(ctx context.Context, userID string) ([]*tasks_models.Task, error) {
	projects, err := s.projectService.GetOwnedProjects(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 {
		return []*tasks_models.Task{}, nil
	}

	projectIDs := make([]string, 0, len(projects))
	for _, project := range projects {
		projectIDs = append(projectIDs, project.ID)
	}

	tasks, err := s.taskRepository.GetTasksByProjects(ctx, projectIDs)
	if err != nil {
		return nil, apperrors.StoreFailure("list project tasks", err)
	}

	return tasks, nil
}

func (s *TaskService) GetProjectBoard(
	ctx context.Context,
	projectID string,
	user *users_models.User,
) (*tasks_dto.BoardResponseDTO, error) {
	tasks, err := s.GetProjectTasksForUser(ctx, projectID, user)
	if err != nil {
		return nil, err
	}

	return BuildBoard(tasks), nil
}

// OnBeforeProjectDeletion detaches the project's tasks so they survive
// the project.
func (s *TaskService) OnBeforeProjectDeletion(ctx context.Context, projectID string) error {
	detached, err := s.taskRepository.DetachProject(ctx, projectID)
	if err != nil {
		return apperrors.StoreFailure("detach project tasks", err)
	}

	if detached > 0 {
		s.logger.Info("detached tasks from deleted project", "projectId", projectID, "tasks", detached)
	}

	return nil
}

// BuildBoard groups tasks by canonical status keeping their order.
func BuildBoard(tasks []*tasks_models.Task) *tasks_dto.BoardResponseDTO {
	board := &tasks_dto.BoardResponseDTO{
		Todo:  []*tasks_models.Task{},
		Doing: []*tasks_models.Task{},
		Done:  []*tasks_models.Task{},
		Other: []*tasks_models.Task{},
	}

	for _, task := range tasks {
		switch task.Status.Canonical() {
		case tasks_enums.TaskStatusTodo:
			board.Todo = append(board.Todo, task)
		case tasks_enums.TaskStatusDoing:
			board.Doing = append(board.Doing, task)
		case tasks_enums.TaskStatusDone:
			board.Done = append(board.Done, task)
		default:
			board.Other = append(board.Other, task)
		}
	}

	return board
}

// filterVisible keeps tasks the user created or whose project the user
// owns or belongs to. Admins see everything.
func (s *TaskService) filterVisible(
	ctx context.Context,
	tasks []*tasks_models.Task,
	user *users_models.User,
) ([]*tasks_models.Task, error) {
	if user.Role == users_enums.UserRoleAdmin {
		return tasks, nil
	}

	projects, err := s.projectService.GetUserProjects(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	visibleProjects := make(map[string]struct{}, len(projects))
	for _, project := range projects {
		visibleProjects[project.ID] = struct{}{}
	}

	visible := make([]*tasks_models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.CreatedBy == user.ID {
			visible = append(visible, task)
			continue
		}

		if task.ProjectID != nil {
			if _, ok := visibleProjects[*task.ProjectID]; ok {
				visible = append(visible, task)
			}
		}
	}

	return visible, nil
}

func (s *TaskService) getExistingTask(ctx context.Context, taskID string) (*tasks_models.Task, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task == nil {
		return nil, apperrors.NotFound("task", taskID)
	}

	return task, nil
}

func (s *TaskService) getAccessibleTask(
	ctx context.Context,
	taskID string,
	user *users_models.User,
) (*tasks_models.Task, error) {
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}

	task, err := s.getExistingTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	var project *projects_models.Project
	if task.ProjectID != nil {
		project, err = s.projectService.GetProjectByID(ctx, *task.ProjectID)
		if err != nil {
			return nil, err
		}
	}

	if !task.CanBeAccessedBy(user, project) {
		return nil, apperrors.PermissionDenied("insufficient permissions to access task")
	}

	return task, nil
}

// getReferencedProject loads a project a task is being linked to. A
// missing project is an invalid reference rather than a not-found.
func (s *TaskService) getReferencedProject(
	ctx context.Context,
	projectID string,
	user *users_models.User,
) (*projects_models.Project, error) {
	project, err := s.projectService.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, apperrors.InvalidReference("project does not exist")
	}

	if !project.CanBeAccessedBy(user) {
		return nil, apperrors.PermissionDenied("insufficient permissions to add tasks to project")
	}

	return project, nil
}

func nonEmptyOrNil(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}

	utc := t.UTC()
	return &utc
}
