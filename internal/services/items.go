package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/models"
)

// itemStore holds the logic shared by tasks and reminders: both are
// user-owned documents with a scheduled date and a fixed set of text fields.
type itemStore struct {
	store      DocumentStore
	norm       *datetime.Normalizer
	logger     *zap.Logger
	collection string
	fields     []string
}

// create stores a new document owned by userID. The date field is parsed
// leniently; every other field is stored as given.
func (s *itemStore) create(ctx context.Context, userID string, values Patch) (string, error) {
	data := map[string]any{models.FieldUserID: userID}
	for _, field := range s.fields {
		if field == models.FieldScheduledAt {
			t, err := s.norm.ParseLenient(values[field])
			if err != nil {
				return "", err
			}
			data[field] = t
			continue
		}
		data[field] = values[field]
	}

	id, err := s.store.Add(ctx, s.collection, data)
	if err != nil {
		return "", fmt.Errorf("failed to add to %s: %w", s.collection, err)
	}

	s.logger.Info("document created", zap.String("collection", s.collection), zap.String("id", id), zap.String("user_id", userID))
	return id, nil
}

// listByUser returns the user's documents ordered by scheduled date.
func (s *itemStore) listByUser(ctx context.Context, userID string) ([]*Document, error) {
	docs, err := s.store.FindBy(ctx, s.collection, models.FieldUserID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.collection, err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Time(models.FieldScheduledAt).Before(docs[j].Time(models.FieldScheduledAt))
	})
	return docs, nil
}

// update validates the patch before touching the store, then applies it to
// the document if it exists and, when ownerID is set, belongs to ownerID.
// It returns the document as stored after the update.
func (s *itemStore) update(ctx context.Context, id, ownerID string, patch Patch) (*Document, error) {
	updates, err := Merge(patch, s.fields, models.FieldScheduledAt, s.norm)
	if err != nil {
		return nil, err
	}

	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, s.collection, id, updates); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update %s/%s: %w", s.collection, id, err)
	}

	doc, err := s.store.Get(ctx, s.collection, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated", zap.String("collection", s.collection), zap.String("id", id), zap.Int("fields", len(updates)))
	return doc, nil
}

// delete removes the document if it exists and, when ownerID is set, belongs
// to ownerID.
func (s *itemStore) delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", s.collection, id, err)
	}

	s.logger.Info("document deleted", zap.String("collection", s.collection), zap.String("id", id))
	return nil
}

// owned loads a document and reports ErrNotFound when it is missing or owned
// by someone other than ownerID. An empty ownerID skips the ownership check.
func (s *itemStore) owned(ctx context.Context, id, ownerID string) (*Document, error) {
	doc, err := s.store.Get(ctx, s.collection, id)
	if err != nil {
		return nil, err
	}
	if ownerID != "" && doc.String(models.FieldUserID) != ownerID {
		return nil, ErrNotFound
	}
	return doc, nil
}
