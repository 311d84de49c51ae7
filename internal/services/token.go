package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// TokenRefresher obtains a fresh OAuth access token.
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// TokenHolder owns the access token used for Firestore REST calls. It is
// safe for concurrent use.
type TokenHolder struct {
	mu        sync.RWMutex
	token     string
	refresher TokenRefresher
}

func NewTokenHolder(initial string, refresher TokenRefresher) *TokenHolder {
	return &TokenHolder{token: initial, refresher: refresher}
}

func (h *TokenHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Refresh replaces the held token. On failure the previous token is kept.
func (h *TokenHolder) Refresh(ctx context.Context) (string, error) {
	token, err := h.refresher.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to refresh access token: %w", err)
	}
	if token == "" {
		return "", errors.New("failed to refresh access token: empty token")
	}

	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	return token, nil
}

// OAuthRefresher exchanges a long-lived refresh token for access tokens.
type OAuthRefresher struct {
	cfg          *oauth2.Config
	refreshToken string
}

// NewOAuthRefresher targets endpoint, normally google.Endpoint.
func NewOAuthRefresher(clientID, clientSecret, refreshToken string, endpoint oauth2.Endpoint) *OAuthRefresher {
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	return &OAuthRefresher{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
		},
		refreshToken: refreshToken,
	}
}

func (r *OAuthRefresher) Refresh(ctx context.Context) (string, error) {
	tok, err := r.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: r.refreshToken}).Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}
