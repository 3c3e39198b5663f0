package users_interfaces

type AuditLogWriter interface {
	WriteAuditLog(message string, userID *string, projectID *string)
}
