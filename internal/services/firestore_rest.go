package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const firestoreRESTBaseURL = "https://firestore.googleapis.com/v1"

var ErrRESTUnauthorized = errors.New("firestore rest: unauthorized after token refresh")

// RESTDocument is a document as returned by the Firestore REST API. Field
// values keep their typed-value JSON encoding.
type RESTDocument struct {
	Name       string                     `json:"name"`
	Fields     map[string]json.RawMessage `json:"fields"`
	CreateTime time.Time                  `json:"createTime"`
	UpdateTime time.Time                  `json:"updateTime"`
}

// FirestoreREST talks to the Firestore REST API with a bearer token taken
// from a TokenHolder. A 401 triggers exactly one token refresh and one retry.
type FirestoreREST struct {
	baseURL   string
	projectID string
	tokens    *TokenHolder
	client    *http.Client
	logger    *zap.Logger
}

func NewFirestoreREST(baseURL, projectID string, tokens *TokenHolder, client *http.Client, logger *zap.Logger) *FirestoreREST {
	if baseURL == "" {
		baseURL = firestoreRESTBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FirestoreREST{
		baseURL:   baseURL,
		projectID: projectID,
		tokens:    tokens,
		client:    client,
		logger:    logger,
	}
}

// ListDocuments returns up to pageSize documents of a collection.
func (c *FirestoreREST) ListDocuments(ctx context.Context, collection string, pageSize int) ([]RESTDocument, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s",
		c.baseURL, url.PathEscape(c.projectID), url.PathEscape(collection))
	if pageSize > 0 {
		endpoint += fmt.Sprintf("?pageSize=%d", pageSize)
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var out struct {
		Documents []RESTDocument `json:"documents"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode firestore response: %w", err)
	}
	return out.Documents, nil
}

// Ping checks that the REST API accepts the current credentials.
func (c *FirestoreREST) Ping(ctx context.Context, collection string) error {
	_, err := c.ListDocuments(ctx, collection, 1)
	return err
}

func (c *FirestoreREST) get(ctx context.Context, endpoint string) ([]byte, error) {
	status, body, err := c.send(ctx, endpoint, c.tokens.Token())
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.logger.Info("firestore access token rejected, refreshing")
		token, err := c.tokens.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		status, body, err = c.send(ctx, endpoint, token)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, ErrRESTUnauthorized
		}
	}

	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("firestore rest: unexpected status %d: %s", status, truncate(body, 200))
	}
	return body, nil
}

func (c *FirestoreREST) send(ctx context.Context, endpoint, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("firestore rest request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read firestore response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
