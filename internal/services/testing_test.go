package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ytakahashi/agenda-api/internal/datetime"
)

// ---- fakes shared by the service tests ----

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeSessions struct {
	err error
}

func (f fakeSessions) Issue(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "session-" + userID, nil
}

// countingStore wraps a MemoryStore and counts writes.
type countingStore struct {
	*MemoryStore
	mu      sync.Mutex
	updates int
	deletes int
	findErr error
}

func (s *countingStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
	return s.MemoryStore.Update(ctx, collection, id, fields)
}

func (s *countingStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	s.deletes++
	s.mu.Unlock()
	return s.MemoryStore.Delete(ctx, collection, id)
}

func (s *countingStore) FindBy(ctx context.Context, collection, field string, value any) ([]*Document, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.MemoryStore.FindBy(ctx, collection, field, value)
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

var errBoom = errors.New("boom")

func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func testNormalizer(t *testing.T) *datetime.Normalizer {
	t.Helper()
	return datetime.NewNormalizer(time.UTC)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
