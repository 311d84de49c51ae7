package services

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreService implements DocumentStore on Cloud Firestore.
type FirestoreService struct {
	client *firestore.Client
}

func NewFirestoreService(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreService, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreService{
		client: client,
	}, nil
}

func (fs *FirestoreService) Close() error {
	return fs.client.Close()
}

func (fs *FirestoreService) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := fs.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (fs *FirestoreService) FindBy(ctx context.Context, collection, field string, value any) ([]*Document, error) {
	iter := fs.client.Collection(collection).
		Where(field, "==", value).
		Documents(ctx)
	defer iter.Stop()

	var docs []*Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
		}

		docs = append(docs, &Document{ID: snap.Ref.ID, Data: snap.Data()})
	}

	return docs, nil
}

func (fs *FirestoreService) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()

	_, err := fs.client.Collection(collection).Doc(id).Set(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to add to %s: %w", collection, err)
	}

	return id, nil
}

func (fs *FirestoreService) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	updates := make([]firestore.Update, 0, len(paths))
	for _, path := range paths {
		updates = append(updates, firestore.Update{Path: path, Value: fields[path]})
	}

	_, err := fs.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}

	return nil
}

func (fs *FirestoreService) Delete(ctx context.Context, collection, id string) error {
	_, err := fs.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}

	return nil
}

// Ping issues a cheap read so startup and health checks notice bad credentials.
func (fs *FirestoreService) Ping(ctx context.Context) error {
	iter := fs.client.Collections(ctx)
	_, err := iter.Next()
	if err != nil && err != iterator.Done {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}
