package projects_repositories

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/storage"
	"taskflow/internal/util/apperrors"
)

// MembershipRepository changes a project's members array with conditional
// writes, so concurrent adds or removes of one member cannot race.
type MembershipRepository struct{}

func (r *MembershipRepository) AddMember(ctx context.Context, projectID string, memberID string) error {
	err := storage.GetStore().Update(ctx, projectsCollection, projectID,
		storage.Patch{
			Set:    map[string]any{"updatedAt": time.Now().UTC()},
			Append: map[string]any{"members": memberID},
		},
		storage.Where("members", storage.OpNotArrayContains, memberID),
	)

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound("project", projectID)
	case errors.Is(err, storage.ErrConditionFailed):
		return apperrors.DuplicateMembership()
	default:
		return err
	}
}

func (r *MembershipRepository) RemoveMember(ctx context.Context, projectID string, memberID string) error {
	err := storage.GetStore().Update(ctx, projectsCollection, projectID,
		storage.Patch{
			Set:    map[string]any{"updatedAt": time.Now().UTC()},
			Remove: map[string]any{"members": memberID},
		},
		storage.Where("members", storage.OpArrayContains, memberID),
	)

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound("project", projectID)
	case errors.Is(err, storage.ErrConditionFailed):
		return apperrors.InvalidReference("member is not in project")
	default:
		return err
	}
}
