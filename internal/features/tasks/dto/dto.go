package tasks_dto

import (
	"time"

	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
)

type CreateTaskRequestDTO struct {
	Title       string                    `json:"title"       binding:"required,min=1,max=500"`
	Description string                    `json:"description"`
	Status      tasks_enums.TaskStatus    `json:"status"`
	ProjectID   *string                   `json:"projectId"`
	AssignedTo  *string                   `json:"assignedTo"`
	DueDate     *time.Time                `json:"dueDate"`
	VoiceNote   *tasks_models.VoiceNote   `json:"voiceNote"`
	Attachments []tasks_models.Attachment `json:"attachments"`
}

// UpdateTaskRequestDTO merges non-nil fields. Project and assignee are
// changed through their own endpoints so their rules always apply. The
// Clear flags remove a field and win over a value sent alongside.
type UpdateTaskRequestDTO struct {
	Title          *string                    `json:"title"          binding:"omitempty,min=1,max=500"`
	Description    *string                    `json:"description"`
	Status         *tasks_enums.TaskStatus    `json:"status"`
	DueDate        *time.Time                 `json:"dueDate"`
	ClearDueDate   bool                       `json:"clearDueDate"`
	VoiceNote      *tasks_models.VoiceNote    `json:"voiceNote"`
	ClearVoiceNote bool                       `json:"clearVoiceNote"`
	Attachments    *[]tasks_models.Attachment `json:"attachments"`
}

type SetStatusRequestDTO struct {
	Status tasks_enums.TaskStatus `json:"status"`
}

type AssignTaskRequestDTO struct {
	MemberID string `json:"memberId" binding:"required"`
}

type AttachTaskRequestDTO struct {
	ProjectID string `json:"projectId" binding:"required"`
}

type ListTasksResponseDTO struct {
	Tasks []*tasks_models.Task `json:"tasks"`
}

// BoardResponseDTO groups a project's tasks by column. Tasks whose status
// is not a known column land in Other.
type BoardResponseDTO struct {
	Todo  []*tasks_models.Task `json:"todo"`
	Doing []*tasks_models.Task `json:"doing"`
	Done  []*tasks_models.Task `json:"done"`
	Other []*tasks_models.Task `json:"other"`
}
