package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/models"
)

type NewTask struct {
	UserID      string
	Title       string
	Description string
	ScheduledAt string
	Status      string
	Category    string
}

type TaskService struct {
	items *itemStore
}

func NewTaskService(store DocumentStore, norm *datetime.Normalizer, logger *zap.Logger) *TaskService {
	return &TaskService{items: &itemStore{
		store:      store,
		norm:       norm,
		logger:     logger,
		collection: models.TasksCollection,
		fields:     models.TaskFields,
	}}
}

func (s *TaskService) Create(ctx context.Context, t NewTask) (string, error) {
	return s.items.create(ctx, t.UserID, Patch{
		models.FieldTitle:       t.Title,
		models.FieldDescription: t.Description,
		models.FieldScheduledAt: t.ScheduledAt,
		models.FieldStatus:      t.Status,
		models.FieldCategory:    t.Category,
	})
}

func (s *TaskService) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	docs, err := s.items.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, taskFromDocument(doc))
	}
	return tasks, nil
}

// Update applies a partial update. ownerID may be empty to skip the
// ownership check.
func (s *TaskService) Update(ctx context.Context, id, ownerID string, patch Patch) (*models.Task, error) {
	doc, err := s.items.update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	return taskFromDocument(doc), nil
}

// Delete removes a task. ownerID may be empty to skip the ownership check.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	return s.items.delete(ctx, id, ownerID)
}

func taskFromDocument(doc *Document) *models.Task {
	return &models.Task{
		ID:          doc.ID,
		UserID:      doc.String(models.FieldUserID),
		Title:       doc.String(models.FieldTitle),
		Description: doc.String(models.FieldDescription),
		ScheduledAt: doc.Time(models.FieldScheduledAt),
		Status:      doc.String(models.FieldStatus),
		Category:    doc.String(models.FieldCategory),
	}
}
