package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/models"
)

type NewReminder struct {
	UserID      string
	Title       string
	Description string
	ScheduledAt string
}

type ReminderService struct {
	items *itemStore
}

func NewReminderService(store DocumentStore, norm *datetime.Normalizer, logger *zap.Logger) *ReminderService {
	return &ReminderService{items: &itemStore{
		store:      store,
		norm:       norm,
		logger:     logger,
		collection: models.RemindersCollection,
		fields:     models.ReminderFields,
	}}
}

func (s *ReminderService) Create(ctx context.Context, r NewReminder) (string, error) {
	return s.items.create(ctx, r.UserID, Patch{
		models.FieldTitle:       r.Title,
		models.FieldDescription: r.Description,
		models.FieldScheduledAt: r.ScheduledAt,
	})
}

func (s *ReminderService) ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error) {
	docs, err := s.items.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	reminders := make([]*models.Reminder, 0, len(docs))
	for _, doc := range docs {
		reminders = append(reminders, reminderFromDocument(doc))
	}
	return reminders, nil
}

func (s *ReminderService) Update(ctx context.Context, id, ownerID string, patch Patch) (*models.Reminder, error) {
	doc, err := s.items.update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	return reminderFromDocument(doc), nil
}

func (s *ReminderService) Delete(ctx context.Context, id, ownerID string) error {
	return s.items.delete(ctx, id, ownerID)
}

func reminderFromDocument(doc *Document) *models.Reminder {
	return &models.Reminder{
		ID:          doc.ID,
		UserID:      doc.String(models.FieldUserID),
		Title:       doc.String(models.FieldTitle),
		Description: doc.String(models.FieldDescription),
		ScheduledAt: doc.Time(models.FieldScheduledAt),
	}
}
