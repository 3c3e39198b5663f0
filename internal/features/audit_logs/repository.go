package audit_logs

import (
	"context"
	"time"

	"taskflow/internal/storage"

	"github.com/google/uuid"
)

const auditLogsCollection = "audit_logs"

type AuditLogRepository struct{}

func (r *AuditLogRepository) Create(ctx context.Context, auditLog *AuditLog) error {
	if auditLog.ID == "" {
		auditLog.ID = uuid.New().String()
	}

	_, err := storage.GetStore().Insert(ctx, auditLogsCollection, storage.Document{
		"id":        auditLog.ID,
		"userId":    auditLog.UserID,
		"projectId": auditLog.ProjectID,
		"message":   auditLog.Message,
		"createdAt": auditLog.CreatedAt,
	})

	return err
}

func (r *AuditLogRepository) GetGlobal(
	ctx context.Context,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLog, error) {
	return r.find(ctx, nil, limit, offset, beforeDate)
}

func (r *AuditLogRepository) GetByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLog, error) {
	predicates := []storage.Predicate{storage.Where("userId", storage.OpEqual, userID)}

	return r.find(ctx, predicates, limit, offset, beforeDate)
}

func (r *AuditLogRepository) GetByProject(
	ctx context.Context,
	projectID string,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLog, error) {
	predicates := []storage.Predicate{storage.Where("projectId", storage.OpEqual, projectID)}

	return r.find(ctx, predicates, limit, offset, beforeDate)
}

func (r *AuditLogRepository) CountGlobal(ctx context.Context, beforeDate *time.Time) (int64, error) {
	docs, err := storage.GetStore().Find(ctx, auditLogsCollection, storage.Query{
		Predicates: beforeDatePredicates(nil, beforeDate),
	})
	if err != nil {
		return 0, err
	}

	return int64(len(docs)), nil
}

func (r *AuditLogRepository) find(
	ctx context.Context,
	predicates []storage.Predicate,
	limit, offset int,
	beforeDate *time.Time,
) ([]*AuditLog, error) {
	docs, err := storage.GetStore().Find(ctx, auditLogsCollection, storage.Query{
		Predicates: beforeDatePredicates(predicates, beforeDate),
		OrderBy:    "createdAt",
		Descending: true,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	auditLogs := make([]*AuditLog, 0, len(docs))
	for _, doc := range docs {
		auditLogs = append(auditLogs, &AuditLog{
			ID:        doc.ID(),
			UserID:    doc.OptionalString("userId"),
			ProjectID: doc.OptionalString("projectId"),
			Message:   doc.String("message"),
			CreatedAt: doc.Time("createdAt"),
		})
	}

	return auditLogs, nil
}

func beforeDatePredicates(predicates []storage.Predicate, beforeDate *time.Time) []storage.Predicate {
	if beforeDate == nil {
		return predicates
	}

	return append(predicates, storage.Where("createdAt", storage.OpLessThan, beforeDate.UTC()))
}
