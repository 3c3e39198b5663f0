package audit_logs

import (
	"time"
)

type AuditLog struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId"`
	ProjectID *string   `json:"projectId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
