package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	members_dto "taskflow/internal/features/members/dto"
	members_services "taskflow/internal/features/members/services"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_enums "taskflow/internal/features/projects/enums"
	projects_models "taskflow/internal/features/projects/models"
	projects_services "taskflow/internal/features/projects/services"
	tasks_dto "taskflow/internal/features/tasks/dto"
	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
	tasks_services "taskflow/internal/features/tasks/services"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	users_testing "taskflow/internal/features/users/testing"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetStats_WithProjectsTasksAndMembers_CountsEachKind(t *testing.T) {
	ctx := context.Background()
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	stranger := users_testing.CreateTestUserModel(users_enums.UserRoleMember)

	active := createProject(t, owner, "Active", "")
	createProject(t, owner, "Finished", projects_enums.ProjectStatusCompleted)
	createProject(t, owner, "Paused", projects_enums.ProjectStatusOnHold)
	createProject(t, stranger, "Elsewhere", "")

	createTask(t, owner, "open", tasks_enums.TaskStatusTodo)
	createTask(t, owner, "shipped", tasks_enums.TaskStatusDone)
	createTask(t, owner, "shipped too", "Done")
	createTask(t, stranger, "not mine", tasks_enums.TaskStatusDone)

	for i := 0; i < 2; i++ {
		_, err := members_services.GetMemberService().CreateMember(ctx, &members_dto.CreateMemberRequestDTO{
			Name:  fmt.Sprintf("Member %d", i),
			Email: fmt.Sprintf("dashboard-%s@test.com", uuid.New().String()[:8]),
		}, owner)
		require.NoError(t, err)
	}

	stats, err := GetDashboardService().GetStats(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalProjects)
	assert.Equal(t, 1, stats.ActiveProjects)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 2, stats.TotalMembers)
	assert.Len(t, stats.RecentProjects, 3)
	assert.Len(t, stats.RecentTasks, 3)
	assert.Contains(t, projectIDs(stats.RecentProjects), active.ID)
}

func Test_GetStats_WithMoreThanThreeItems_ReturnsNewestThree(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)

	created := make([]*tasks_models.Task, 0, 5)
	for i := 0; i < 5; i++ {
		created = append(created, createTask(t, owner, fmt.Sprintf("task %d", i), ""))
	}

	stats, err := GetDashboardService().GetStats(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalTasks)
	assert.Equal(t, []string{created[4].ID, created[3].ID, created[2].ID}, taskIDs(stats.RecentTasks))
}

func Test_GetStats_ForNewUser_ReturnsZeroesAndEmptyLists(t *testing.T) {
	owner := users_testing.CreateTestUserModel(users_enums.UserRoleMember)

	stats, err := GetDashboardService().GetStats(context.Background(), owner)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalProjects)
	assert.Zero(t, stats.TotalTasks)
	assert.Zero(t, stats.TotalMembers)
	assert.NotNil(t, stats.RecentProjects)
	assert.Empty(t, stats.RecentProjects)
	assert.NotNil(t, stats.RecentTasks)
	assert.Empty(t, stats.RecentTasks)
}

func Test_GetStats_WithoutActor_ReturnsUnauthenticated(t *testing.T) {
	_, err := GetDashboardService().GetStats(context.Background(), nil)

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func createProject(
	t *testing.T,
	owner *users_models.User,
	name string,
	status projects_enums.ProjectStatus,
) *projects_models.Project {
	t.Helper()

	project, err := projects_services.GetProjectService().CreateProject(context.Background(),
		&projects_dto.CreateProjectRequestDTO{Name: name, Status: status}, owner)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	return project
}

func createTask(
	t *testing.T,
	owner *users_models.User,
	title string,
	status tasks_enums.TaskStatus,
) *tasks_models.Task {
	t.Helper()

	task, err := tasks_services.GetTaskService().CreateTask(context.Background(),
		&tasks_dto.CreateTaskRequestDTO{Title: title, Status: status}, owner)
	require.NoError(t, err)

	// recent lists order by createdAt
	time.Sleep(2 * time.Millisecond)
	return task
}

func projectIDs(projects []*projects_models.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, project := range projects {
		ids = append(ids, project.ID)
	}
	return ids
}

func taskIDs(tasks []*tasks_models.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}
