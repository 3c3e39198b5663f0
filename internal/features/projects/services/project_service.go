package projects_services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	audit_logs "taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_enums "taskflow/internal/features/projects/enums"
	projects_interfaces "taskflow/internal/features/projects/interfaces"
	projects_models "taskflow/internal/features/projects/models"
	projects_repositories "taskflow/internal/features/projects/repositories"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"
	cache_utils "taskflow/internal/util/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type ProjectService struct {
	projectRepository        *projects_repositories.ProjectRepository
	auditLogService          *audit_logs.AuditLogService
	projectDeletionListeners []projects_interfaces.ProjectDeletionListener

	projectCacheUtil *cache_utils.CacheUtil[projects_models.Project]
	singleflight     singleflight.Group
}

func (s *ProjectService) AddProjectDeletionListener(listener projects_interfaces.ProjectDeletionListener) {
	s.projectDeletionListeners = append(s.projectDeletionListeners, listener)
}

func (s *ProjectService) CreateProject(
	ctx context.Context,
	request *projects_dto.CreateProjectRequestDTO,
	creator *users_models.User,
) (*projects_models.Project, error) {
	if creator == nil {
		return nil, apperrors.Unauthenticated()
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "project name is required")
	}

	status := request.Status
	if status == "" {
		status = projects_enums.ProjectStatusActive
	}

	now := time.Now().UTC()
	project := &projects_models.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: request.Description,
		StartDate:   utcOrNil(request.StartDate),
		EndDate:     utcOrNil(request.EndDate),
		Status:      status,
		CreatedBy:   creator.ID,
		Members:     []string{creator.ID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := project.ValidateDates(); err != nil {
		return nil, err
	}

	if err := s.projectRepository.CreateProject(ctx, project); err != nil {
		return nil, apperrors.StoreFailure("create project", err)
	}

	s.projectCacheUtil.Set(project.ID, project)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project created: %s", project.Name),
		&creator.ID,
		&project.ID,
	)

	return project, nil
}

// GetProjectByID reads the store directly and returns nil for a missing id.
func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*projects_models.Project, error) {
	project, err := s.projectRepository.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, apperrors.StoreFailure("get project", err)
	}

	return project, nil
}

func (s *ProjectService) GetProject(
	ctx context.Context,
	projectID string,
	user *users_models.User,
) (*projects_models.Project, error) {
	project, err := s.GetProjectWithCache(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanBeAccessedBy(user) {
		return nil, apperrors.PermissionDenied("insufficient permissions to view project")
	}

	return project, nil
}

// GetUserProjects returns the projects the user owns or belongs to, newest
// first, each project once.
func (s *ProjectService) GetUserProjects(ctx context.Context, userID string) ([]*projects_models.Project, error) {
	if userID == "" {
		return []*projects_models.Project{}, nil
	}

	var owned, memberOf []*projects_models.Project

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		owned, err = s.projectRepository.GetProjectsCreatedBy(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		memberOf, err = s.projectRepository.GetProjectsWithMember(groupCtx, userID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, apperrors.StoreFailure("list user projects", err)
	}

	return mergeProjects(owned, memberOf), nil
}

func (s *ProjectService) GetOwnedProjects(ctx context.Context, userID string) ([]*projects_models.Project, error) {
	if userID == "" {
		return []*projects_models.Project{}, nil
	}

	projects, err := s.projectRepository.GetProjectsCreatedBy(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreFailure("list owned projects", err)
	}

	return projects, nil
}

func (s *ProjectService) GetMemberProjects(ctx context.Context, memberID string) ([]*projects_models.Project, error) {
	if memberID == "" {
		return []*projects_models.Project{}, nil
	}

	projects, err := s.projectRepository.GetProjectsWithMember(ctx, memberID)
	if err != nil {
		return nil, apperrors.StoreFailure("list member projects", err)
	}

	return projects, nil
}

func (s *ProjectService) UpdateProject(
	ctx context.Context,
	projectID string,
	request *projects_dto.UpdateProjectRequestDTO,
	user *users_models.User,
) (*projects_models.Project, error) {
	project, err := s.getExistingProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanBeManagedBy(user) {
		return nil, apperrors.PermissionDenied("insufficient permissions to update project")
	}

	fields := make(map[string]any)

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, apperrors.Validation("name", "project name is required")
		}
		project.Name = name
		fields["name"] = name
	}
	if request.Description != nil {
		project.Description = *request.Description
		fields["description"] = *request.Description
	}
	var unset []string

	if request.ClearStartDate {
		project.StartDate = nil
		unset = append(unset, "startDate")
	} else if request.StartDate != nil {
		project.StartDate = utcOrNil(request.StartDate)
		fields["startDate"] = project.StartDate
	}
	if request.ClearEndDate {
		project.EndDate = nil
		unset = append(unset, "endDate")
	} else if request.EndDate != nil {
		project.EndDate = utcOrNil(request.EndDate)
		fields["endDate"] = project.EndDate
	}
	if request.Status != nil {
		project.Status = *request.Status
		fields["status"] = *request.Status
	}

	if err := project.ValidateDates(); err != nil {
		return nil, err
	}

	if err := s.projectRepository.UpdateProject(ctx, projectID, fields, unset); err != nil {
		return nil, apperrors.FromStore("update project", err)
	}

	s.projectCacheUtil.Invalidate(projectID)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project updated: %s", project.Name),
		&user.ID,
		&projectID,
	)

	return s.getExistingProject(ctx, projectID)
}

func (s *ProjectService) DeleteProject(ctx context.Context, projectID string, user *users_models.User) error {
	project, err := s.getExistingProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.CanBeManagedBy(user) {
		return apperrors.PermissionDenied("only project owner or admin can delete project")
	}

	for _, listener := range s.projectDeletionListeners {
		if err := listener.OnBeforeProjectDeletion(ctx, projectID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
	}

	if err := s.projectRepository.DeleteProject(ctx, projectID); err != nil {
		return apperrors.FromStore("delete project", err)
	}

	s.projectCacheUtil.Invalidate(projectID)

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project deleted: %s", project.Name),
		&user.ID,
		&projectID,
	)

	return nil
}

func (s *ProjectService) GetProjectAuditLogs(
	ctx context.Context,
	projectID string,
	user *users_models.User,
	request *audit_logs.GetAuditLogsRequest,
) (*audit_logs.GetAuditLogsResponse, error) {
	project, err := s.GetProjectWithCache(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanBeAccessedBy(user) {
		return nil, apperrors.PermissionDenied("insufficient permissions to view project audit logs")
	}

	return s.auditLogService.GetProjectAuditLogs(ctx, projectID, request)
}

// GetProjectWithCache serves repeated reads of one project from the cache
// and collapses concurrent store lookups for the same id.
func (s *ProjectService) GetProjectWithCache(ctx context.Context, projectID string) (*projects_models.Project, error) {
	if cachedProject := s.projectCacheUtil.Get(projectID); cachedProject != nil {
		return cachedProject, nil
	}

	result, err, _ := s.singleflight.Do(projectID, func() (any, error) {
		return s.projectRepository.GetProjectByID(ctx, projectID)
	})
	if err != nil {
		return nil, apperrors.StoreFailure("get project", err)
	}

	project, ok := result.(*projects_models.Project)
	if !ok || project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}

	s.projectCacheUtil.Set(projectID, project)

	return project, nil
}

func (s *ProjectService) InvalidateProjectCache(projectID string) {
	s.projectCacheUtil.Invalidate(projectID)
}

func (s *ProjectService) getExistingProject(ctx context.Context, projectID string) (*projects_models.Project, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}

	return project, nil
}

func mergeProjects(lists ...[]*projects_models.Project) []*projects_models.Project {
	seen := make(map[string]struct{})
	merged := make([]*projects_models.Project, 0)

	for _, list := range lists {
		for _, project := range list {
			if _, ok := seen[project.ID]; ok {
				continue
			}
			seen[project.ID] = struct{}{}
			merged = append(merged, project)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}

	utc := t.UTC()
	return &utc
}
