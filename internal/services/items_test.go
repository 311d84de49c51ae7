package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/models"
)

func newTaskService(t *testing.T) (*TaskService, *countingStore) {
	t.Helper()
	store := newCountingStore()
	return NewTaskService(store, testNormalizer(t), nopLogger()), store
}

func sampleTask(userID, when string) NewTask {
	return NewTask{
		UserID:      userID,
		Title:       "Estudar",
		Description: "Capítulo 3",
		ScheduledAt: when,
		Status:      "pendente",
		Category:    "estudos",
	}
}

func TestTaskService_CreateAndList(t *testing.T) {
	s, _ := newTaskService(t)
	ctx := context.Background()

	later, err := s.Create(ctx, sampleTask("u1", "02/01/2025 08:00"))
	require.NoError(t, err)
	earlier, err := s.Create(ctx, sampleTask("u1", "01/01/2025 10:00"))
	require.NoError(t, err)
	_, err = s.Create(ctx, sampleTask("u2", "01/01/2025 10:00"))
	require.NoError(t, err)

	tasks, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, earlier, tasks[0].ID)
	assert.Equal(t, later, tasks[1].ID)

	norm := testNormalizer(t)
	got := tasks[0]
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Estudar", got.Title)
	assert.Equal(t, "Capítulo 3", got.Description)
	assert.Equal(t, "pendente", got.Status)
	assert.Equal(t, "estudos", got.Category)
	assert.Equal(t, "01/01/2025 10:00", norm.Format(got.ScheduledAt))
}

func TestTaskService_ListEmpty(t *testing.T) {
	s, _ := newTaskService(t)

	tasks, err := s.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_CreateRejectsUnreadableDate(t *testing.T) {
	s, store := newTaskService(t)

	_, err := s.Create(context.Background(), sampleTask("u1", "amanhã"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, 0, store.Count(models.TasksCollection))
}

func TestTaskService_CreateIsLenient(t *testing.T) {
	s, _ := newTaskService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, sampleTask("u1", "1/2/2025 9:05"))
	require.NoError(t, err)

	tasks, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, time.Date(2025, 2, 1, 9, 5, 0, 0, time.UTC), tasks[0].ScheduledAt)
}

func TestTaskService_Update(t *testing.T) {
	s, _ := newTaskService(t)
	ctx := context.Background()
	id, err := s.Create(ctx, sampleTask("u1", "01/01/2025 10:00"))
	require.NoError(t, err)

	updated, err := s.Update(ctx, id, "", Patch{
		models.FieldStatus:      "feito",
		models.FieldScheduledAt: "03/01/2025 11:30",
		models.FieldTitle:       "",
	})
	require.NoError(t, err)

	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "feito", updated.Status)
	assert.Equal(t, "Estudar", updated.Title)
	assert.Equal(t, "estudos", updated.Category)
	assert.Equal(t, time.Date(2025, 1, 3, 11, 30, 0, 0, time.UTC), updated.ScheduledAt)
}

func TestTaskService_UpdateValidationHappensBeforeWrite(t *testing.T) {
	s, store := newTaskService(t)
	ctx := context.Background()
	id, err := s.Create(ctx, sampleTask("u1", "01/01/2025 10:00"))
	require.NoError(t, err)

	_, err = s.Update(ctx, id, "", Patch{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = s.Update(ctx, id, "", Patch{models.FieldTitle: "novo", models.FieldScheduledAt: "31-13-2024"})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = s.Update(ctx, id, "", Patch{models.FieldScheduledAt: "01/01/2025"})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	assert.Equal(t, 0, store.updates)

	tasks, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Estudar", tasks[0].Title)
}

func TestTaskService_UpdateMissingOrForeign(t *testing.T) {
	s, store := newTaskService(t)
	ctx := context.Background()
	id, err := s.Create(ctx, sampleTask("u1", "01/01/2025 10:00"))
	require.NoError(t, err)

	_, err = s.Update(ctx, "missing", "", Patch{models.FieldTitle: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, id, "u2", Patch{models.FieldTitle: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, store.updates)

	_, err = s.Update(ctx, id, "u1", Patch{models.FieldTitle: "x"})
	assert.NoError(t, err)
}

func TestTaskService_Delete(t *testing.T) {
	s, store := newTaskService(t)
	ctx := context.Background()
	id, err := s.Create(ctx, sampleTask("u1", "01/01/2025 10:00"))
	require.NoError(t, err)

	err = s.Delete(ctx, id, "u2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.deletes)
	assert.Equal(t, 1, store.Count(models.TasksCollection))

	require.NoError(t, s.Delete(ctx, id, "u1"))
	assert.Equal(t, 0, store.Count(models.TasksCollection))

	err = s.Delete(ctx, id, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReminderService_Lifecycle(t *testing.T) {
	store := newCountingStore()
	norm, err := datetime.LoadNormalizer("America/Sao_Paulo")
	require.NoError(t, err)
	s := NewReminderService(store, norm, nopLogger())
	ctx := context.Background()

	id, err := s.Create(ctx, NewReminder{UserID: "u1", Title: "Remédio", Description: "8h", ScheduledAt: "10/05/2025 08:00"})
	require.NoError(t, err)

	reminders, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "10/05/2025 08:00", norm.Format(reminders[0].ScheduledAt))

	_, err = s.Update(ctx, id, "", Patch{models.FieldStatus: "ignored"})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	updated, err := s.Update(ctx, id, "u1", Patch{models.FieldDescription: "9h", models.FieldScheduledAt: "10/05/2025 09:00"})
	require.NoError(t, err)
	assert.Equal(t, "9h", updated.Description)
	assert.Equal(t, "10/05/2025 09:00", norm.Format(updated.ScheduledAt))

	assert.ErrorIs(t, s.Delete(ctx, id, "u2"), ErrNotFound)
	require.NoError(t, s.Delete(ctx, id, ""))
	assert.Equal(t, 0, store.Count(models.RemindersCollection))
}
