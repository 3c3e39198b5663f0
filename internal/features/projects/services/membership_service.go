package projects_services

import (
	"context"
	"fmt"
	"strings"

	audit_logs "taskflow/internal/features/audit_logs"
	projects_repositories "taskflow/internal/features/projects/repositories"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"
)

type MembershipService struct {
	membershipRepository *projects_repositories.MembershipRepository
	auditLogService      *audit_logs.AuditLogService
	projectService       *ProjectService
}

// AddMember appends memberID to the project's members. A member already
// present fails with DuplicateMembership and leaves the list unchanged.
func (s *MembershipService) AddMember(
	ctx context.Context,
	projectID string,
	memberID string,
	user *users_models.User,
) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return apperrors.Validation("memberId", "member id is required")
	}

	project, err := s.projectService.getExistingProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.CanBeManagedBy(user) {
		return apperrors.PermissionDenied("insufficient permissions to manage project members")
	}

	if err := s.membershipRepository.AddMember(ctx, projectID, memberID); err != nil {
		return apperrors.FromStore("add project member", err)
	}

	s.projectService.InvalidateProjectCache(projectID)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member %s added to project %s", memberID, project.Name),
		&user.ID,
		&projectID,
	)

	return nil
}

// RemoveMember drops memberID from the project's members. A member not in
// the project fails with InvalidReference.
func (s *MembershipService) RemoveMember(
	ctx context.Context,
	projectID string,
	memberID string,
	user *users_models.User,
) error {
	project, err := s.projectService.getExistingProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.CanBeManagedBy(user) {
		return apperrors.PermissionDenied("insufficient permissions to manage project members")
	}

	if err := s.membershipRepository.RemoveMember(ctx, projectID, memberID); err != nil {
		return apperrors.FromStore("remove project member", err)
	}

	s.projectService.InvalidateProjectCache(projectID)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member %s removed from project %s", memberID, project.Name),
		&user.ID,
		&projectID,
	)

	return nil
}
