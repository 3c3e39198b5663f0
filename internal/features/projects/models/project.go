package projects_models

import (
	"slices"
	"time"

	projects_enums "taskflow/internal/features/projects/enums"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"
)

type Project struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	StartDate   *time.Time                   `json:"startDate"`
	EndDate     *time.Time                   `json:"endDate"`
	Status      projects_enums.ProjectStatus `json:"status"`
	CreatedBy   string                       `json:"createdBy"`
	Members     []string                     `json:"members"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

func (p *Project) HasMember(memberID string) bool {
	return memberID != "" && slices.Contains(p.Members, memberID)
}

func (p *Project) IsOwnedBy(userID string) bool {
	return userID != "" && p.CreatedBy == userID
}

// CanBeAccessedBy allows admins, the owner and any listed member.
func (p *Project) CanBeAccessedBy(user *users_models.User) bool {
	if user == nil {
		return false
	}

	return user.Role == users_enums.UserRoleAdmin || p.IsOwnedBy(user.ID) || p.HasMember(user.ID)
}

func (p *Project) CanBeManagedBy(user *users_models.User) bool {
	if user == nil {
		return false
	}

	return user.Role == users_enums.UserRoleAdmin || p.IsOwnedBy(user.ID)
}

func (p *Project) ValidateDates() error {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return apperrors.Validation("endDate", "end date must not be before start date")
	}

	return nil
}
