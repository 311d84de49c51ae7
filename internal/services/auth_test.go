package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytakahashi/agenda-api/internal/models"
)

func newAuthService(t *testing.T) (*AuthService, *countingStore, *fakeMailer) {
	t.Helper()
	store := newCountingStore()
	mailer := &fakeMailer{}
	return NewAuthService(store, testHasher(), mailer, fakeSessions{}, nopLogger()), store, mailer
}

func register(t *testing.T, s *AuthService, email, password string) string {
	t.Helper()
	id, err := s.Register(context.Background(), Registration{Email: email, Password: password, Phone: "1", Name: "N"})
	require.NoError(t, err)
	return id
}

func storedHash(t *testing.T, store DocumentStore, userID string) string {
	t.Helper()
	doc, err := store.Get(context.Background(), models.UsersCollection, userID)
	require.NoError(t, err)
	return doc.String(models.FieldPassword)
}

func TestRegister_HashesPassword(t *testing.T) {
	s, store, _ := newAuthService(t)

	id := register(t, s, "a@x.com", "pw1")

	doc, err := store.Get(context.Background(), models.UsersCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", doc.String(models.FieldEmail))
	assert.Equal(t, "1", doc.String(models.FieldPhone))
	assert.Equal(t, "N", doc.String(models.FieldName))
	assert.NotEqual(t, "pw1", doc.String(models.FieldPassword))

	ok, err := testHasher().Compare(doc.String(models.FieldPassword), "pw1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	s, store, _ := newAuthService(t)

	_, err := s.Register(context.Background(), Registration{Email: "a@x.com", Password: strings.Repeat("x", 73), Phone: "1", Name: "N"})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Zero(t, store.Count(models.UsersCollection))

	id := register(t, s, "b@x.com", strings.Repeat("x", 72))
	before := storedHash(t, store, id)
	err = s.ChangePassword(context.Background(), id, strings.Repeat("x", 72), strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, before, storedHash(t, store, id))
}

func TestRegister_DoesNotEnforceUniqueEmail(t *testing.T) {
	s, store, _ := newAuthService(t)

	a := register(t, s, "a@x.com", "pw1")
	b := register(t, s, "a@x.com", "pw2")

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, store.Count(models.UsersCollection))
}

func TestLogin(t *testing.T) {
	s, _, _ := newAuthService(t)
	id := register(t, s, "a@x.com", "pw1")
	ctx := context.Background()

	session, err := s.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, session.UserID)
	assert.Equal(t, "session-"+id, session.Token)

	_, err = s.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Login(ctx, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogin_SessionError(t *testing.T) {
	store := newCountingStore()
	s := NewAuthService(store, testHasher(), &fakeMailer{}, fakeSessions{err: errBoom}, nopLogger())
	register(t, s, "a@x.com", "pw1")

	_, err := s.Login(context.Background(), "a@x.com", "pw1")
	assert.ErrorIs(t, err, errBoom)
}

func TestLogin_LookupFailure(t *testing.T) {
	s, store, _ := newAuthService(t)
	store.findErr = errBoom

	_, err := s.Login(context.Background(), "a@x.com", "pw1")
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	s, store, _ := newAuthService(t)
	id := register(t, s, "a@x.com", "pw1")
	ctx := context.Background()

	require.NoError(t, s.ChangePassword(ctx, id, "pw1", "pw2"))

	_, err := s.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.Login(ctx, "a@x.com", "pw2")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.updates)
}

func TestChangePassword_WrongCurrentDoesNotWrite(t *testing.T) {
	s, store, _ := newAuthService(t)
	id := register(t, s, "a@x.com", "pw1")
	before := storedHash(t, store, id)

	err := s.ChangePassword(context.Background(), id, "not-it", "pw2")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, 0, store.updates)
	assert.Equal(t, before, storedHash(t, store, id))
}

func TestChangePassword_UnknownUser(t *testing.T) {
	s, store, _ := newAuthService(t)

	err := s.ChangePassword(context.Background(), "missing", "pw1", "pw2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.updates)
}

func TestIssueTemporaryPassword(t *testing.T) {
	s, _, mailer := newAuthService(t)
	register(t, s, "a@x.com", "pw1")
	ctx := context.Background()

	require.NoError(t, s.IssueTemporaryPassword(ctx, "a@x.com"))

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, "a@x.com", mail.To)
	assert.Equal(t, temporaryPasswordSubject, mail.Subject)

	temp := regexp.MustCompile(`senha temporária é: ([0-9a-f]{12})\.`).FindStringSubmatch(mail.Body)
	require.Len(t, temp, 2, "body: %s", mail.Body)

	_, err := s.Login(ctx, "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.Login(ctx, "a@x.com", temp[1])
	assert.NoError(t, err)
}

func TestIssueTemporaryPassword_UnknownEmail(t *testing.T) {
	s, store, mailer := newAuthService(t)

	err := s.IssueTemporaryPassword(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, 0, store.updates)
}

func TestIssueTemporaryPassword_MailFailureKeepsNewPassword(t *testing.T) {
	s, store, mailer := newAuthService(t)
	register(t, s, "a@x.com", "pw1")
	s.newPassword = func() (string, error) { return "abcdef012345", nil }
	mailer.err = errBoom
	ctx := context.Background()

	err := s.IssueTemporaryPassword(ctx, "a@x.com")
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, store.updates)

	_, err = s.Login(ctx, "a@x.com", "abcdef012345")
	assert.NoError(t, err)
}

func TestRandomHexPassword(t *testing.T) {
	a, err := randomHexPassword()
	require.NoError(t, err)
	b, err := randomHexPassword()
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{12}$`, a)
	assert.NotEqual(t, a, b)
}
