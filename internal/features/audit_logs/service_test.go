package audit_logs

import (
	"context"
	"testing"
	"time"

	users_enums "taskflow/internal/features/users/enums"
	users_testing "taskflow/internal/features/users/testing"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AuditLogs_ProjectSpecificLogs(t *testing.T) {
	service := GetAuditLogService()
	user1 := users_testing.CreateTestUser(users_enums.UserRoleMember)
	user2 := users_testing.CreateTestUser(users_enums.UserRoleMember)
	project1ID, project2ID := uuid.New().String(), uuid.New().String()

	createAuditLog(service, "Test project1 log first", &user1.UserID, &project1ID)
	createAuditLog(service, "Test project1 log second", &user2.UserID, &project1ID)
	createAuditLog(service, "Test project2 log first", &user1.UserID, &project2ID)
	createAuditLog(service, "Test project2 log second", &user2.UserID, &project2ID)
	createAuditLog(service, "Test no project log", &user1.UserID, nil)

	request := &GetAuditLogsRequest{Limit: 10, Offset: 0}

	project1Response, err := service.GetProjectAuditLogs(context.Background(), project1ID, request)
	require.NoError(t, err)
	assert.Equal(t, 2, len(project1Response.AuditLogs))

	messages := extractMessages(project1Response.AuditLogs)
	assert.Contains(t, messages, "Test project1 log first")
	assert.Contains(t, messages, "Test project1 log second")
	for _, log := range project1Response.AuditLogs {
		assert.Equal(t, &project1ID, log.ProjectID)
		assert.NotNil(t, log.UserEmail)
	}

	project2Response, err := service.GetProjectAuditLogs(context.Background(), project2ID, request)
	require.NoError(t, err)
	assert.Equal(t, 2, len(project2Response.AuditLogs))

	messages2 := extractMessages(project2Response.AuditLogs)
	assert.Contains(t, messages2, "Test project2 log first")
	assert.Contains(t, messages2, "Test project2 log second")

	limitedResponse, err := service.GetProjectAuditLogs(context.Background(), project1ID,
		&GetAuditLogsRequest{Limit: 1, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, len(limitedResponse.AuditLogs))
	assert.Equal(t, 1, limitedResponse.Limit)
	assert.Equal(t, "Test project1 log second", limitedResponse.AuditLogs[0].Message)

	offsetResponse, err := service.GetProjectAuditLogs(context.Background(), project1ID,
		&GetAuditLogsRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, 1, len(offsetResponse.AuditLogs))
	assert.Equal(t, "Test project1 log first", offsetResponse.AuditLogs[0].Message)

	beforeTime := time.Now().UTC().Add(-1 * time.Minute)
	filteredResponse, err := service.GetProjectAuditLogs(context.Background(), project1ID,
		&GetAuditLogsRequest{Limit: 10, BeforeDate: &beforeTime})
	require.NoError(t, err)
	assert.Empty(t, filteredResponse.AuditLogs)
}

func Test_GetGlobalAuditLogs_WhenUserIsMember_ReturnsPermissionDenied(t *testing.T) {
	service := GetAuditLogService()
	member := users_testing.CreateTestUserModel(users_enums.UserRoleMember)

	_, err := service.GetGlobalAuditLogs(context.Background(), member, &GetAuditLogsRequest{})

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func Test_GetUserAuditLogs_WhenUserRequestsOtherUser_ReturnsPermissionDenied(t *testing.T) {
	service := GetAuditLogService()
	user1 := users_testing.CreateTestUserModel(users_enums.UserRoleMember)
	user2 := users_testing.CreateTestUserModel(users_enums.UserRoleMember)

	_, err := service.GetUserAuditLogs(context.Background(), user1.ID, user2, &GetAuditLogsRequest{})

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func Test_GetAuditLogs_WithOutOfRangeLimit_UsesDefaultLimit(t *testing.T) {
	service := GetAuditLogService()
	admin := users_testing.CreateTestUserModel(users_enums.UserRoleAdmin)

	response, err := service.GetGlobalAuditLogs(context.Background(), admin, &GetAuditLogsRequest{Limit: 5000, Offset: -3})
	require.NoError(t, err)

	assert.Equal(t, defaultAuditLogsLimit, response.Limit)
	assert.Equal(t, 0, response.Offset)
}

func createAuditLog(service *AuditLogService, message string, userID, projectID *string) {
	service.WriteAuditLog(message, userID, projectID)
	// keeps createdAt strictly increasing between entries
	time.Sleep(2 * time.Millisecond)
}

func extractMessages(logs []*AuditLogDTO) []string {
	messages := make([]string, len(logs))
	for i, log := range logs {
		messages[i] = log.Message
	}
	return messages
}
