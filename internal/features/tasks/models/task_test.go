package tasks_models

import (
	"testing"

	projects_models "taskflow/internal/features/projects/models"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/apperrors"

	"github.com/stretchr/testify/assert"
)

func Test_ValidateAssignment_WhenMemberOutsideProject_ReturnsInvalidReference(t *testing.T) {
	project := &projects_models.Project{ID: "p-1", Members: []string{"owner", "m-1"}}

	assert.NoError(t, ValidateAssignment(project, "m-1"))
	assert.ErrorIs(t, ValidateAssignment(project, "m-2"), apperrors.ErrInvalidReference)
	assert.ErrorIs(t, ValidateAssignment(nil, "m-1"), apperrors.ErrInvalidReference)
}

func Test_CanBeAccessedBy_WithProjectMembership_AllowsAccess(t *testing.T) {
	projectID := "p-1"
	task := &Task{CreatedBy: "creator", ProjectID: &projectID}
	project := &projects_models.Project{ID: projectID, CreatedBy: "owner", Members: []string{"owner", "member"}}

	assert.True(t, task.CanBeAccessedBy(&users_models.User{ID: "creator"}, nil))
	assert.True(t, task.CanBeAccessedBy(&users_models.User{ID: "member"}, project))
	assert.True(t, task.CanBeAccessedBy(&users_models.User{ID: "x", Role: users_enums.UserRoleAdmin}, nil))
	assert.False(t, task.CanBeAccessedBy(&users_models.User{ID: "stranger"}, project))
	assert.False(t, task.CanBeAccessedBy(&users_models.User{ID: "member"}, nil))
}

func Test_IsInProject_WithNilProject_ReturnsFalse(t *testing.T) {
	projectID := "p-1"

	assert.False(t, (&Task{}).IsInProject("p-1"))
	assert.True(t, (&Task{ProjectID: &projectID}).IsInProject("p-1"))
}
