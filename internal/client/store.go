package client

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"eventplatform/internal/domain"
)

const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
)

// AuthAPI is the part of the API the auth store talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
}

// AuthState is a snapshot of the auth store.
type AuthState struct {
	User            *domain.User
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// AuthStore holds the session of the current user. Create one per process with
// NewAuthStore and pass it to the views that need it.
type AuthStore struct {
	mu      sync.Mutex
	api     AuthAPI
	storage TokenStorage
	logger  *slog.Logger
	state   AuthState
	// gen changes whenever the session is replaced (login, register, logout).
	gen uint64
}

// NewAuthStore initializes the store from the token in storage. A stored token counts
// as authenticated until CheckAuth says otherwise.
func NewAuthStore(api AuthAPI, storage TokenStorage, logger *slog.Logger) (*AuthStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	token, err := storage.Load()
	if err != nil {
		return nil, err
	}
	return &AuthStore{
		api:     api,
		storage: storage,
		logger:  logger,
		state:   AuthState{Token: token, IsAuthenticated: token != ""},
	}, nil
}

// Snapshot returns a copy of the current state.
func (s *AuthStore) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		u.SavedEvents = slices.Clone(st.User.SavedEvents)
		st.User = &u
	}
	return st
}

// Token returns the current bearer token, or "" when logged out.
func (s *AuthStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	s.begin()
	res, err := s.api.Login(ctx, email, password)
	return s.finishAuth(res, err, msgLoginFailed)
}

func (s *AuthStore) Register(ctx context.Context, in RegisterInput) error {
	s.begin()
	res, err := s.api.Register(ctx, in)
	return s.finishAuth(res, err, msgRegistrationFailed)
}

// Logout forgets the token locally. It makes no request.
func (s *AuthStore) Logout() {
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("could not clear stored token", "err", err)
	}
	s.mu.Lock()
	s.state = AuthState{}
	s.gen++
	s.mu.Unlock()
}

// CheckAuth validates the stored token against the profile endpoint. Without a stored
// token it returns false and makes no request. A rejected token is cleared.
func (s *AuthStore) CheckAuth(ctx context.Context) bool {
	token, err := s.storage.Load()
	if err != nil {
		s.logger.Warn("could not read stored token", "err", err)
	}
	if token == "" {
		return false
	}

	s.mu.Lock()
	s.state.Loading = true
	gen := s.gen
	s.mu.Unlock()

	user, err := s.api.Profile(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if gen != s.gen {
		// logged out or in again while the profile was in flight
		return s.state.IsAuthenticated
	}
	if err != nil {
		s.logger.Debug("stored token rejected", "err", err)
		if cerr := s.storage.Clear(); cerr != nil {
			s.logger.Warn("could not clear stored token", "err", cerr)
		}
		s.state.User = nil
		s.state.Token = ""
		s.state.IsAuthenticated = false
		return false
	}
	s.state.User = user
	s.state.Token = token
	s.state.IsAuthenticated = true
	return true
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// SetSaved records the result of a save toggle in the current user's savedEvents.
func (s *AuthStore) SetSaved(eventID string, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.state.User
	if u == nil || u.HasSaved(eventID) == saved {
		return
	}
	u.ToggleSaved(eventID)
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

func (s *AuthStore) finishAuth(res *AuthResult, err error, fallback string) error {
	if err == nil && (res == nil || res.Token == "") {
		err = errors.New("response carried no token")
	}
	if err == nil {
		if serr := s.storage.Save(res.Token); serr != nil {
			s.logger.Warn("could not persist token", "err", serr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errorMessage(err, fallback)
		return err
	}
	s.state.User = res.User
	s.state.Token = res.Token
	s.state.IsAuthenticated = true
	s.gen++
	return nil
}

// errorMessage prefers the server-provided message and falls back otherwise.
func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
