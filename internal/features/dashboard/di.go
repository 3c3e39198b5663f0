package dashboard

import (
	members_services "taskflow/internal/features/members/services"
	projects_services "taskflow/internal/features/projects/services"
	tasks_services "taskflow/internal/features/tasks/services"
	"taskflow/internal/util/logger"
)

var dashboardService = &DashboardService{
	projects_services.GetProjectService(),
	tasks_services.GetTaskService(),
	members_services.GetMemberService(),
	logger.GetLogger(),
}
var dashboardController = &DashboardController{
	dashboardService,
}

func GetDashboardService() *DashboardService {
	return dashboardService
}

func GetDashboardController() *DashboardController {
	return dashboardController
}
