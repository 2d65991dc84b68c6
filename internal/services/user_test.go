package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventplatform/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(repo *fakeUserRepo, issuer *fakeTokenIssuer, mail domain.EmailService) domain.UserService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(repo, &fakePasswordHasher{}, issuer, time.Hour, mail, logger, time.Second)
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.RegisterInput
		errIs   error
		wantErr string
	}{
		{name: "success", in: domain.RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "secret1"}},
		{name: "short username", in: domain.RegisterInput{Username: "al", Email: "a@example.com", Password: "secret1"}, errIs: domain.ErrValidation, wantErr: "username must be at least 3 characters"},
		{name: "long username", in: domain.RegisterInput{Username: "abcdefghijklmnopqrstuvwxyzabcde", Email: "a@example.com", Password: "secret1"}, errIs: domain.ErrValidation, wantErr: "username must be at most 30 characters"},
		{name: "bad email", in: domain.RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, errIs: domain.ErrValidation, wantErr: "invalid email format"},
		{name: "short password", in: domain.RegisterInput{Username: "alice", Email: "a@example.com", Password: "12345"}, errIs: domain.ErrValidation, wantErr: "password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			mail := &fakeEmailService{}
			svc := newTestUserService(repo, &fakeTokenIssuer{}, mail)

			token, user, err := svc.Register(context.Background(), tt.in)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, repo.byID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token-user-1", token)
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "hash-salt-secret1", user.PasswordHash)
			assert.Equal(t, []string{}, user.SavedEvents)
			require.Len(t, mail.sent, 1)
			assert.Equal(t, "alice@example.com", mail.sent[0].Email)
		})
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeTokenIssuer{}, nil)
	_, _, err := svc.Register(context.Background(), domain.RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), domain.RegisterInput{Username: "bob", Email: "a@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, _, err = svc.Register(context.Background(), domain.RegisterInput{Username: "alice", Email: "b@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestUserService_Register_EmailFailureIsNotFatal(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeTokenIssuer{}, &fakeEmailService{err: errors.New("smtp down")})
	token, _, err := svc.Register(context.Background(), domain.RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestUserService_Register_SlowEmailIsBounded(t *testing.T) {
	mail := &fakeEmailService{hang: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewUserService(newFakeUserRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, mail, logger, 50*time.Millisecond)

	start := time.Now()
	token, user, err := svc.Register(context.Background(), domain.RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, mail.hadDeadline)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestUserService_Register_TokenFailure(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeTokenIssuer{err: errors.New("sign")}, nil)
	_, _, err := svc.Register(context.Background(), domain.RegisterInput{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.Error(t, err)
}

func TestUserService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeTokenIssuer{}, nil)
	_, registered, err := svc.Register(context.Background(), domain.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		errIs    error
	}{
		{name: "success", email: "alice@example.com", password: "secret1"},
		{name: "email is case insensitive", email: " ALICE@example.com", password: "secret1"},
		{name: "wrong password", email: "alice@example.com", password: "nope", errIs: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", password: "secret1", errIs: domain.ErrInvalidCredentials},
		{name: "empty input", errIs: domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token-"+registered.ID, token)
			assert.Equal(t, registered.ID, user.ID)
		})
	}
}

func TestUserService_Login_RepoError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errDB
	svc := newTestUserService(repo, &fakeTokenIssuer{}, nil)
	_, _, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.ErrorIs(t, err, errDB)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_GetByID(t *testing.T) {
	repo := newFakeUserRepo()
	u := domain.NewUser("alice", "a@example.com", "h", "s", time.Time{}, time.Time{})
	require.NoError(t, repo.Create(context.Background(), u))
	svc := newTestUserService(repo, &fakeTokenIssuer{}, nil)

	got, err := svc.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
