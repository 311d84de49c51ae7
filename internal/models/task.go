package models

import (
	"time"
)

const (
	TasksCollection     = "tarefas"
	RemindersCollection = "lembretes"

	FieldUserID      = "userId"
	FieldTitle       = "titulo"
	FieldDescription = "descricao"
	FieldScheduledAt = "horario"
	FieldStatus      = "status"
	FieldCategory    = "categoria"
)

// TaskFields are the mutable fields of a task, in request order.
var TaskFields = []string{FieldTitle, FieldDescription, FieldScheduledAt, FieldStatus, FieldCategory}

// ReminderFields are the mutable fields of a reminder, in request order.
var ReminderFields = []string{FieldTitle, FieldDescription, FieldScheduledAt}

// Task represents a task item
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	ScheduledAt time.Time
	Status      string
	Category    string
}

// Reminder represents a reminder item
type Reminder struct {
	ID          string
	UserID      string
	Title       string
	Description string
	ScheduledAt time.Time
}
