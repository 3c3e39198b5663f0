package tasks_repositories

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	tasks_enums "taskflow/internal/features/tasks/enums"
	tasks_models "taskflow/internal/features/tasks/models"
	"taskflow/internal/storage"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const tasksCollection = "tasks"

type TaskRepository struct {
	store func() storage.DocumentStore
}

// NewTaskRepository binds the repository to store. The zero value uses
// storage.GetStore.
func NewTaskRepository(store func() storage.DocumentStore) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *tasks_models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	_, err := r.getStore().Insert(ctx, tasksCollection, taskToDocument(task))
	return err
}

// GetTaskByID returns nil without error when the task does not exist.
func (r *TaskRepository) GetTaskByID(ctx context.Context, taskID string) (*tasks_models.Task, error) {
	if taskID == "" {
		return nil, nil
	}

	doc, err := r.getStore().Get(ctx, tasksCollection, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return taskFromDocument(doc), nil
}

// UpdateTask merges fields and refreshes updatedAt. With conditions the
// write only happens when they hold, otherwise storage.ErrConditionFailed
// is returned unchanged.
func (r *TaskRepository) UpdateTask(
	ctx context.Context,
	taskID string,
	fields map[string]any,
	unset []string,
	conditions ...storage.Predicate,
) error {
	set := make(map[string]any, len(fields)+1)
	for field, value := range fields {
		set[field] = value
	}
	set["updatedAt"] = time.Now().UTC()

	err := r.getStore().Update(ctx, tasksCollection, taskID, storage.Patch{Set: set, Unset: unset}, conditions...)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("task", taskID)
	}

	return err
}

func (r *TaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	err := r.getStore().Delete(ctx, tasksCollection, taskID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("task", taskID)
	}

	return err
}

func (r *TaskRepository) GetTasksByProject(ctx context.Context, projectID string) ([]*tasks_models.Task, error) {
	return r.find(ctx, storage.Where("projectId", storage.OpEqual, projectID))
}

func (r *TaskRepository) GetTasksCreatedBy(ctx context.Context, userID string) ([]*tasks_models.Task, error) {
	return r.find(ctx, storage.Where("createdBy", storage.OpEqual, userID))
}

func (r *TaskRepository) GetTasksAssignedTo(ctx context.Context, memberID string) ([]*tasks_models.Task, error) {
	return r.find(ctx, storage.Where("assignedTo", storage.OpEqual, memberID))
}

func (r *TaskRepository) GetTasksByStatuses(
	ctx context.Context,
	statuses []tasks_enums.TaskStatus,
) ([]*tasks_models.Task, error) {
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
	}

	return r.find(ctx, storage.Where("status", storage.OpIn, values))
}

// GetTasksByProjects queries projectIDs in chunks that fit one "in"
// predicate and returns the merged result newest first.
func (r *TaskRepository) GetTasksByProjects(ctx context.Context, projectIDs []string) ([]*tasks_models.Task, error) {
	var (
		mu    sync.Mutex
		tasks = make([]*tasks_models.Task, 0)
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(projectIDs); start += storage.MaxInValues {
		chunk := projectIDs[start:min(start+storage.MaxInValues, len(projectIDs))]

		group.Go(func() error {
			found, err := r.find(groupCtx, storage.Where("projectId", storage.OpIn, chunk))
			if err != nil {
				return err
			}

			mu.Lock()
			tasks = append(tasks, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sortNewestFirst(tasks)
	return tasks, nil
}

// DetachProject clears projectId and assignedTo on every task of the
// project and returns how many tasks were changed. An unattached task
// cannot keep an assignee.
func (r *TaskRepository) DetachProject(ctx context.Context, projectID string) (int, error) {
	tasks, err := r.GetTasksByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	for _, task := range tasks {
		err := r.UpdateTask(ctx, task.ID, nil, []string{"projectId", "assignedTo"},
			storage.Where("projectId", storage.OpEqual, projectID))
		if err != nil && !errors.Is(err, storage.ErrConditionFailed) && !errors.Is(err, apperrors.ErrNotFound) {
			return 0, err
		}
	}

	return len(tasks), nil
}

func (r *TaskRepository) find(ctx context.Context, predicates ...storage.Predicate) ([]*tasks_models.Task, error) {
	docs, err := r.getStore().Find(ctx, tasksCollection, storage.Query{
		Predicates: predicates,
		OrderBy:    "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]*tasks_models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, taskFromDocument(doc))
	}

	return tasks, nil
}

func sortNewestFirst(tasks []*tasks_models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func (r *TaskRepository) getStore() storage.DocumentStore {
	if r.store != nil {
		return r.store()
	}

	return storage.GetStore()
}
