package tasks_services

import (
	"sync"

	"taskflow/internal/features/audit_logs"
	projects_services "taskflow/internal/features/projects/services"
	tasks_repositories "taskflow/internal/features/tasks/repositories"
	"taskflow/internal/util/logger"
)

var taskRepository = &tasks_repositories.TaskRepository{}

var taskService = &TaskService{
	taskRepository,
	projects_services.GetProjectService(),
	audit_logs.GetAuditLogService(),
	logger.GetLogger(),
}

func GetTaskService() *TaskService {
	return taskService
}

var setupOnce sync.Once

func SetupDependencies() {
	setupOnce.Do(func() {
		projects_services.GetProjectService().AddProjectDeletionListener(taskService)
	})
}
