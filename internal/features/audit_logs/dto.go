package audit_logs

import (
	"time"
)

type GetAuditLogsRequest struct {
	Limit      int        `form:"limit"      json:"limit"`
	Offset     int        `form:"offset"     json:"offset"`
	BeforeDate *time.Time `form:"beforeDate" json:"beforeDate"`
}

type GetAuditLogsResponse struct {
	AuditLogs []*AuditLogDTO `json:"auditLogs"`
	Total     int64          `json:"total"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

type AuditLogDTO struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId"`
	ProjectID *string   `json:"projectId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UserEmail *string   `json:"userEmail"`
}
