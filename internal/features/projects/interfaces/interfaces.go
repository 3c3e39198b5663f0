package projects_interfaces

import "context"

type ProjectDeletionListener interface {
	OnBeforeProjectDeletion(ctx context.Context, projectID string) error
}
