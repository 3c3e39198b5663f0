package tasks_controllers

import (
	"net/http"
	"testing"

	projects_controllers "taskflow/internal/features/projects/controllers"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_testing "taskflow/internal/features/projects/testing"
	tasks_dto "taskflow/internal/features/tasks/dto"
	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
	tasks_services "taskflow/internal/features/tasks/services"
	users_enums "taskflow/internal/features/users/enums"
	users_testing "taskflow/internal/features/users/testing"
	test_utils "taskflow/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TaskLifecycleE2E_CompletesSuccessfully(t *testing.T) {
	router := createTaskTestRouter()
	owner := users_testing.CreateTestUser(users_enums.UserRoleMember)
	project := projects_testing.CreateTestProject("Launch", owner, router)
	memberID := uuid.New().String()

	// 1. Create an unattached task
	var task tasks_models.Task
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		tasks_dto.CreateTaskRequestDTO{Title: "Design"}, http.StatusOK, &task)
	assert.Equal(t, tasks_enums.TaskStatusTodo, task.Status)
	assert.Nil(t, task.ProjectID)

	// 2. Attach it to the project
	var attached tasks_models.Task
	test_utils.MakePutRequestAndUnmarshal(t, router, "/api/v1/tasks/"+task.ID+"/project", "Bearer "+owner.Token,
		tasks_dto.AttachTaskRequestDTO{ProjectID: project.ID}, http.StatusOK, &attached)
	require.NotNil(t, attached.ProjectID)
	assert.Equal(t, project.ID, *attached.ProjectID)

	// 3. Assigning an outsider fails, after adding them it succeeds
	resp := test_utils.MakePutRequest(t, router, "/api/v1/tasks/"+task.ID+"/assignee", "Bearer "+owner.Token,
		tasks_dto.AssignTaskRequestDTO{MemberID: memberID}, http.StatusUnprocessableEntity)
	assert.Contains(t, string(resp.Body), "INVALID_REFERENCE")

	test_utils.MakePostRequest(t, router, "/api/v1/projects/"+project.ID+"/members", "Bearer "+owner.Token,
		projects_dto.AddMemberRequestDTO{MemberID: memberID}, http.StatusOK)

	var assigned tasks_models.Task
	test_utils.MakePutRequestAndUnmarshal(t, router, "/api/v1/tasks/"+task.ID+"/assignee", "Bearer "+owner.Token,
		tasks_dto.AssignTaskRequestDTO{MemberID: memberID}, http.StatusOK, &assigned)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, memberID, *assigned.AssignedTo)

	// 4. Move it across the board
	var moved tasks_models.Task
	test_utils.MakePutRequestAndUnmarshal(t, router, "/api/v1/tasks/"+task.ID+"/status", "Bearer "+owner.Token,
		tasks_dto.SetStatusRequestDTO{Status: tasks_enums.TaskStatusDoing}, http.StatusOK, &moved)
	assert.Equal(t, tasks_enums.TaskStatusDoing, moved.Status)

	var board tasks_dto.BoardResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/projects/"+project.ID+"/board",
		"Bearer "+owner.Token, http.StatusOK, &board)
	require.Len(t, board.Doing, 1)
	assert.Equal(t, task.ID, board.Doing[0].ID)
	assert.Empty(t, board.Todo)

	// 5. Listings
	var projectTasks tasks_dto.ListTasksResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/projects/"+project.ID+"/tasks",
		"Bearer "+owner.Token, http.StatusOK, &projectTasks)
	assert.Len(t, projectTasks.Tasks, 1)

	var assignedTasks tasks_dto.ListTasksResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/tasks/assigned/"+memberID,
		"Bearer "+owner.Token, http.StatusOK, &assignedTasks)
	assert.Len(t, assignedTasks.Tasks, 1)

	var doingTasks tasks_dto.ListTasksResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/tasks/status/doing",
		"Bearer "+owner.Token, http.StatusOK, &doingTasks)
	assert.Len(t, doingTasks.Tasks, 1)

	var ownedProjectTasks tasks_dto.ListTasksResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/tasks/projects",
		"Bearer "+owner.Token, http.StatusOK, &ownedProjectTasks)
	assert.Len(t, ownedProjectTasks.Tasks, 1)

	// 6. Partial update keeps other fields
	newTitle := "Design v2"
	var updated tasks_models.Task
	test_utils.MakePutRequestAndUnmarshal(t, router, "/api/v1/tasks/"+task.ID, "Bearer "+owner.Token,
		tasks_dto.UpdateTaskRequestDTO{Title: &newTitle}, http.StatusOK, &updated)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, tasks_enums.TaskStatusDoing, updated.Status)

	// 7. Delete
	test_utils.MakeDeleteRequest(t, router, "/api/v1/tasks/"+task.ID, "Bearer "+owner.Token, http.StatusOK)
	test_utils.MakeGetRequest(t, router, "/api/v1/tasks/"+task.ID, "Bearer "+owner.Token, http.StatusNotFound)
}

func Test_GetTask_WhenUserIsOutsider_ReturnsForbidden(t *testing.T) {
	router := createTaskTestRouter()
	owner := users_testing.CreateTestUser(users_enums.UserRoleMember)
	outsider := users_testing.CreateTestUser(users_enums.UserRoleMember)

	var task tasks_models.Task
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		tasks_dto.CreateTaskRequestDTO{Title: "Secret"}, http.StatusOK, &task)

	test_utils.MakeGetRequest(t, router, "/api/v1/tasks/"+task.ID, "Bearer "+outsider.Token, http.StatusForbidden)

	var outsiderTasks tasks_dto.ListTasksResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/tasks/status/todo",
		"Bearer "+outsider.Token, http.StatusOK, &outsiderTasks)
	for _, visible := range outsiderTasks.Tasks {
		assert.NotEqual(t, task.ID, visible.ID)
	}
}

func Test_CreateTask_WithMissingProject_ReturnsUnprocessableEntity(t *testing.T) {
	router := createTaskTestRouter()
	owner := users_testing.CreateTestUser(users_enums.UserRoleMember)
	missingProjectID := uuid.New().String()

	test_utils.MakePostRequest(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		tasks_dto.CreateTaskRequestDTO{Title: "Lost", ProjectID: &missingProjectID}, http.StatusUnprocessableEntity)
}

func createTaskTestRouter() *gin.Engine {
	tasks_services.SetupDependencies()

	return projects_testing.CreateTestRouter(
		projects_controllers.GetProjectController(),
		projects_controllers.GetMembershipController(),
		GetTaskController(),
	)
}
