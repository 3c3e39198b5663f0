package tasks_models

import (
	"time"

	projects_models "taskflow/internal/features/projects/models"
	tasks_enums "taskflow/internal/features/tasks/enums"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"
)

// VoiceNote references a recorded audio blob. The uri is opaque.
type VoiceNote struct {
	URI       string     `json:"uri"`
	Duration  float64    `json:"duration"`
	FileName  string     `json:"fileName"`
	CreatedAt *time.Time `json:"createdAt"`
}

type Attachment struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Task struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      tasks_enums.TaskStatus `json:"status"`
	ProjectID   *string                `json:"projectId"`
	AssignedTo  *string                `json:"assignedTo"`
	DueDate     *time.Time             `json:"dueDate"`
	VoiceNote   *VoiceNote             `json:"voiceNote"`
	Attachments []Attachment           `json:"attachments"`
	CreatedBy   string                 `json:"createdBy"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func (t *Task) IsInProject(projectID string) bool {
	return t.ProjectID != nil && *t.ProjectID == projectID
}

// CanBeAccessedBy allows admins, the creator and anyone who can access the
// task's project. project is nil for unattached tasks.
func (t *Task) CanBeAccessedBy(user *users_models.User, project *projects_models.Project) bool {
	if user == nil {
		return false
	}

	if user.Role == users_enums.UserRoleAdmin || t.CreatedBy == user.ID {
		return true
	}

	return project != nil && project.CanBeAccessedBy(user)
}

// ValidateAssignment checks that memberID may be assigned to a task of
// project.
func ValidateAssignment(project *projects_models.Project, memberID string) error {
	if project == nil {
		return apperrors.InvalidReference("task is not attached to an existing project")
	}

	if !project.HasMember(memberID) {
		return apperrors.InvalidReference("member does not belong to project")
	}

	return nil
}
