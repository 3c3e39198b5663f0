package projects_repositories

import (
	"context"
	"errors"
	"time"

	projects_enums "taskflow/internal/features/projects/enums"
	projects_models "taskflow/internal/features/projects/models"
	"taskflow/internal/storage"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
)

const projectsCollection = "projects"

type ProjectRepository struct{}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *projects_models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	_, err := storage.GetStore().Insert(ctx, projectsCollection, projectToDocument(project))
	return err
}

// GetProjectByID returns nil without error when the project does not exist.
func (r *ProjectRepository) GetProjectByID(ctx context.Context, projectID string) (*projects_models.Project, error) {
	if projectID == "" {
		return nil, nil
	}

	doc, err := storage.GetStore().Get(ctx, projectsCollection, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return projectFromDocument(doc), nil
}

// UpdateProject merges fields into the stored project and refreshes updatedAt.
func (r *ProjectRepository) UpdateProject(
	ctx context.Context,
	projectID string,
	fields map[string]any,
	unset []string,
) error {
	set := make(map[string]any, len(fields)+1)
	for field, value := range fields {
		set[field] = value
	}
	set["updatedAt"] = time.Now().UTC()

	err := storage.GetStore().Update(ctx, projectsCollection, projectID, storage.Patch{Set: set, Unset: unset})
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("project", projectID)
	}

	return err
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	err := storage.GetStore().Delete(ctx, projectsCollection, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("project", projectID)
	}

	return err
}

func (r *ProjectRepository) GetProjectsCreatedBy(ctx context.Context, userID string) ([]*projects_models.Project, error) {
	return r.find(ctx, storage.Where("createdBy", storage.OpEqual, userID))
}

func (r *ProjectRepository) GetProjectsWithMember(ctx context.Context, memberID string) ([]*projects_models.Project, error) {
	return r.find(ctx, storage.Where("members", storage.OpArrayContains, memberID))
}

func (r *ProjectRepository) find(ctx context.Context, predicates ...storage.Predicate) ([]*projects_models.Project, error) {
	docs, err := storage.GetStore().Find(ctx, projectsCollection, storage.Query{
		Predicates: predicates,
		OrderBy:    "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}

	projects := make([]*projects_models.Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, projectFromDocument(doc))
	}

	return projects, nil
}

func projectToDocument(project *projects_models.Project) storage.Document {
	members := project.Members
	if members == nil {
		members = []string{}
	}

	return storage.Document{
		"id":          project.ID,
		"name":        project.Name,
		"description": project.Description,
		"startDate":   project.StartDate,
		"endDate":     project.EndDate,
		"status":      project.Status,
		"createdBy":   project.CreatedBy,
		"members":     members,
		"createdAt":   project.CreatedAt,
		"updatedAt":   project.UpdatedAt,
	}
}

func projectFromDocument(doc storage.Document) *projects_models.Project {
	return &projects_models.Project{
		ID:          doc.ID(),
		Name:        doc.String("name"),
		Description: doc.String("description"),
		StartDate:   doc.OptionalTime("startDate"),
		EndDate:     doc.OptionalTime("endDate"),
		Status:      projects_enums.ProjectStatus(doc.String("status")),
		CreatedBy:   doc.String("createdBy"),
		Members:     doc.StringSlice("members"),
		CreatedAt:   doc.Time("createdAt"),
		UpdatedAt:   doc.Time("updatedAt"),
	}
}
