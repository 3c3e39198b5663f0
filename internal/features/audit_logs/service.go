package audit_logs

import (
	"context"
	"log/slog"
	"time"

	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	users_services "taskflow/internal/features/users/services"
	"taskflow/internal/util/apperrors"
)

const (
	defaultAuditLogsLimit = 100
	maxAuditLogsLimit     = 1000
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository
	userService        *users_services.UserService
	logger             *slog.Logger
}

// WriteAuditLog never fails the caller; storage errors are only logged.
func (s *AuditLogService) WriteAuditLog(
	message string,
	userID *string,
	projectID *string,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	auditLog := &AuditLog{
		UserID:    userID,
		ProjectID: projectID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.auditLogRepository.Create(ctx, auditLog); err != nil {
		s.logger.Error("failed to create audit log", "error", err)
	}
}

func (s *AuditLogService) CreateAuditLog(ctx context.Context, auditLog *AuditLog) error {
	return s.auditLogRepository.Create(ctx, auditLog)
}

func (s *AuditLogService) GetGlobalAuditLogs(
	ctx context.Context,
	user *users_models.User,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	if user.Role != users_enums.UserRoleAdmin {
		return nil, apperrors.PermissionDenied("only administrators can view global audit logs")
	}

	limit, offset := normalizePaging(request)

	auditLogs, err := s.auditLogRepository.GetGlobal(ctx, limit, offset, request.BeforeDate)
	if err != nil {
		return nil, apperrors.StoreFailure("get audit logs", err)
	}

	total, err := s.auditLogRepository.CountGlobal(ctx, request.BeforeDate)
	if err != nil {
		return nil, apperrors.StoreFailure("count audit logs", err)
	}

	return &GetAuditLogsResponse{
		AuditLogs: s.toDTOs(ctx, auditLogs),
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (s *AuditLogService) GetUserAuditLogs(
	ctx context.Context,
	targetUserID string,
	user *users_models.User,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	// Users can view their own logs, ADMIN can view any user's logs
	if user.Role != users_enums.UserRoleAdmin && user.ID != targetUserID {
		return nil, apperrors.PermissionDenied("insufficient permissions to view user audit logs")
	}

	limit, offset := normalizePaging(request)

	auditLogs, err := s.auditLogRepository.GetByUser(ctx, targetUserID, limit, offset, request.BeforeDate)
	if err != nil {
		return nil, apperrors.StoreFailure("get audit logs", err)
	}

	return &GetAuditLogsResponse{
		AuditLogs: s.toDTOs(ctx, auditLogs),
		Total:     int64(len(auditLogs)),
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// GetProjectAuditLogs does no access check; callers verify the project
// is visible to the requesting user first.
func (s *AuditLogService) GetProjectAuditLogs(
	ctx context.Context,
	projectID string,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	limit, offset := normalizePaging(request)

	auditLogs, err := s.auditLogRepository.GetByProject(ctx, projectID, limit, offset, request.BeforeDate)
	if err != nil {
		return nil, apperrors.StoreFailure("get audit logs", err)
	}

	return &GetAuditLogsResponse{
		AuditLogs: s.toDTOs(ctx, auditLogs),
		Total:     int64(len(auditLogs)),
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (s *AuditLogService) toDTOs(ctx context.Context, auditLogs []*AuditLog) []*AuditLogDTO {
	emails := make(map[string]*string)

	dtos := make([]*AuditLogDTO, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		dto := &AuditLogDTO{
			ID:        auditLog.ID,
			UserID:    auditLog.UserID,
			ProjectID: auditLog.ProjectID,
			Message:   auditLog.Message,
			CreatedAt: auditLog.CreatedAt,
		}

		if auditLog.UserID != nil {
			email, isResolved := emails[*auditLog.UserID]
			if !isResolved {
				email = s.resolveUserEmail(ctx, *auditLog.UserID)
				emails[*auditLog.UserID] = email
			}
			dto.UserEmail = email
		}

		dtos = append(dtos, dto)
	}

	return dtos
}

func (s *AuditLogService) resolveUserEmail(ctx context.Context, userID string) *string {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return nil
	}

	return &user.Email
}

func normalizePaging(request *GetAuditLogsRequest) (int, int) {
	limit := request.Limit
	if limit <= 0 || limit > maxAuditLogsLimit {
		limit = defaultAuditLogsLimit
	}

	return limit, max(request.Offset, 0)
}
