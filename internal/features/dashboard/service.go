package dashboard

import (
	"context"
	"log/slog"

	members_models "taskflow/internal/features/members/models"
	members_services "taskflow/internal/features/members/services"
	projects_enums "taskflow/internal/features/projects/enums"
	projects_models "taskflow/internal/features/projects/models"
	projects_services "taskflow/internal/features/projects/services"
	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
	tasks_services "taskflow/internal/features/tasks/services"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"

	"golang.org/x/sync/errgroup"
)

const recentItemsLimit = 3

type DashboardService struct {
	projectService *projects_services.ProjectService
	taskService    *tasks_services.TaskService
	memberService  *members_services.MemberService
	logger         *slog.Logger
}

// GetStats summarizes the user's projects, the tasks they created and the
// members they manage. Lists are newest first, so the recent items are
// their heads.
func (s *DashboardService) GetStats(
	ctx context.Context,
	user *users_models.User,
) (*DashboardStatsResponseDTO, error) {
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}

	var (
		projects []*projects_models.Project
		tasks    []*tasks_models.Task
		members  []*members_models.Member
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		projects, err = s.projectService.GetUserProjects(groupCtx, user.ID)
		return err
	})
	group.Go(func() error {
		var err error
		tasks, err = s.taskService.GetUserTasks(groupCtx, user.ID)
		return err
	})
	group.Go(func() error {
		var err error
		members, err = s.memberService.GetUserMembers(groupCtx, user.ID)
		return err
	})

	if err := group.Wait(); err != nil {
		s.logger.Error("failed to load dashboard stats", "userId", user.ID, "error", err)
		return nil, err
	}

	stats := &DashboardStatsResponseDTO{
		TotalProjects:  len(projects),
		TotalTasks:     len(tasks),
		TotalMembers:   len(members),
		RecentProjects: projects[:min(recentItemsLimit, len(projects))],
		RecentTasks:    tasks[:min(recentItemsLimit, len(tasks))],
	}

	for _, project := range projects {
		if project.Status == projects_enums.ProjectStatusActive {
			stats.ActiveProjects++
		}
	}

	for _, task := range tasks {
		if task.Status.Canonical() == tasks_enums.TaskStatusDone {
			stats.CompletedTasks++
		}
	}

	return stats, nil
}
