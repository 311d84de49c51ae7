package services

import (
	"context"
	"time"
)

// Document is a schemaless record addressed by collection and id.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore is the subset of a document database the API relies on.
// Get and Update return ErrNotFound for unknown ids; Delete of an unknown id
// succeeds.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	FindBy(ctx context.Context, collection, field string, value any) ([]*Document, error)
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

func (d *Document) String(field string) string {
	if v, ok := d.Data[field].(string); ok {
		return v
	}
	return ""
}

func (d *Document) Time(field string) time.Time {
	switch v := d.Data[field].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}
