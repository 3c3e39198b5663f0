package dashboard

import (
	projects_models "taskflow/internal/features/projects/models"
	tasks_models "taskflow/internal/features/tasks/models"
)

type DashboardStatsResponseDTO struct {
	TotalProjects  int `json:"totalProjects"`
	ActiveProjects int `json:"activeProjects"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	TotalMembers   int `json:"totalMembers"`

	RecentProjects []*projects_models.Project `json:"recentProjects"`
	RecentTasks    []*tasks_models.Task       `json:"recentTasks"`
}
