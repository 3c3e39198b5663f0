package projects_dto

import (
	"time"

	projects_enums "taskflow/internal/features/projects/enums"
	projects_models "taskflow/internal/features/projects/models"
)

type CreateProjectRequestDTO struct {
	Name        string                       `json:"name"        binding:"required,min=1,max=255"`
	Description string                       `json:"description"`
	StartDate   *time.Time                   `json:"startDate"`
	EndDate     *time.Time                   `json:"endDate"`
	Status      projects_enums.ProjectStatus `json:"status"`
}

// UpdateProjectRequestDTO is a partial update: nil fields are left as is.
// ClearStartDate and ClearEndDate remove the date and win over a value
// sent alongside.
type UpdateProjectRequestDTO struct {
	Name           *string                       `json:"name"           binding:"omitempty,min=1,max=255"`
	Description    *string                       `json:"description"`
	StartDate      *time.Time                    `json:"startDate"`
	ClearStartDate bool                          `json:"clearStartDate"`
	EndDate        *time.Time                    `json:"endDate"`
	ClearEndDate   bool                          `json:"clearEndDate"`
	Status         *projects_enums.ProjectStatus `json:"status"`
}

type ListProjectsResponseDTO struct {
	Projects []*projects_models.Project `json:"projects"`
}

type AddMemberRequestDTO struct {
	MemberID string `json:"memberId" binding:"required"`
}
