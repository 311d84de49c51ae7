package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/models"
)

const (
	temporaryPasswordBytes = 6

	temporaryPasswordSubject = "Sua senha temporária"
	temporaryPasswordBody    = "Olá, sua senha temporária é: %s. Use-a para acessar sua conta e redefinir sua senha."
)

// SessionIssuer mints the token returned by Login.
type SessionIssuer interface {
	Issue(userID string) (string, error)
}

type Registration struct {
	Email    string
	Password string
	Phone    string
	Name     string
}

type Session struct {
	Token  string
	UserID string
}

// AuthService implements registration, login and password management on the
// users collection.
type AuthService struct {
	store    DocumentStore
	hasher   Hasher
	mailer   Mailer
	sessions SessionIssuer
	logger   *zap.Logger

	// newPassword generates temporary passwords; replaced in tests.
	newPassword func() (string, error)
}

func NewAuthService(store DocumentStore, hasher Hasher, mailer Mailer, sessions SessionIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:       store,
		hasher:      hasher,
		mailer:      mailer,
		sessions:    sessions,
		logger:      logger,
		newPassword: randomHexPassword,
	}
}

// Register stores a new user with a hashed password and returns its id.
// Email uniqueness is not checked.
func (s *AuthService) Register(ctx context.Context, r Registration) (string, error) {
	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return "", err
	}

	id, err := s.store.Add(ctx, models.UsersCollection, map[string]any{
		models.FieldEmail:    r.Email,
		models.FieldPassword: hash,
		models.FieldPhone:    r.Phone,
		models.FieldName:     r.Name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", id))
	return id, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	doc, err := s.store.Get(ctx, models.UsersCollection, userID)
	if err != nil {
		return err
	}
	user := userFromDocument(doc)

	ok, err := s.hasher.Compare(user.PasswordHash, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	return s.setPassword(ctx, user.ID, next)
}

// IssueTemporaryPassword resets the password of the user with the given email
// to a random value and mails it to them. The new hash is stored before the
// mail is sent; a delivery failure does not restore the previous password.
func (s *AuthService) IssueTemporaryPassword(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	password, err := s.newPassword()
	if err != nil {
		return fmt.Errorf("failed to generate temporary password: %w", err)
	}

	if err := s.setPassword(ctx, user.ID, password); err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, user.Email, temporaryPasswordSubject, fmt.Sprintf(temporaryPasswordBody, password)); err != nil {
		s.logger.Error("temporary password stored but mail delivery failed",
			zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	s.logger.Info("temporary password sent", zap.String("user_id", user.ID))
	return nil
}

// Login verifies credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, UserID: user.ID}, nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	err = s.store.Update(ctx, models.UsersCollection, userID, map[string]any{
		models.FieldPassword: hash,
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return err
}

// findByEmail returns the first user with the given email.
func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := s.store.FindBy(ctx, models.UsersCollection, models.FieldEmail, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return userFromDocument(docs[0]), nil
}

func userFromDocument(doc *Document) *models.User {
	return &models.User{
		ID:           doc.ID,
		Email:        doc.String(models.FieldEmail),
		PasswordHash: doc.String(models.FieldPassword),
		Phone:        doc.String(models.FieldPhone),
		Name:         doc.String(models.FieldName),
	}
}

func randomHexPassword() (string, error) {
	b := make([]byte, temporaryPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
