package projects_services

import (
	"taskflow/internal/cache"
	"taskflow/internal/features/audit_logs"
	projects_interfaces "taskflow/internal/features/projects/interfaces"
	projects_models "taskflow/internal/features/projects/models"
	projects_repositories "taskflow/internal/features/projects/repositories"
	cache_utils "taskflow/internal/util/cache"

	"golang.org/x/sync/singleflight"
)

var projectRepository = &projects_repositories.ProjectRepository{}
var membershipRepository = &projects_repositories.MembershipRepository{}

var projectService = &ProjectService{
	projectRepository,
	audit_logs.GetAuditLogService(),
	[]projects_interfaces.ProjectDeletionListener{},
	cache_utils.NewCacheUtil[projects_models.Project](cache.GetCache(), "tf_project:"),
	singleflight.Group{},
}

var membershipService = &MembershipService{
	membershipRepository,
	audit_logs.GetAuditLogService(),
	projectService,
}

func GetProjectService() *ProjectService {
	return projectService
}

func GetMembershipService() *MembershipService {
	return membershipService
}
