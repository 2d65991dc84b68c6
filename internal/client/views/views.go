// Package views holds the view-state controllers of the event client. Each view owns a
// context that is cancelled by Close; responses that land after Close are dropped.
package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"eventplatform/internal/client"
	"eventplatform/internal/domain"
)

var (
	// ErrLoginRequired is returned by actions that need a signed-in user.
	ErrLoginRequired = errors.New("login required")
	// ErrClosed is returned when the view was closed before the response arrived.
	ErrClosed = errors.New("view closed")
)

// EventsAPI is the part of the API client the views call.
type EventsAPI interface {
	ListEvents(ctx context.Context, token string, p client.ListParams) (*client.EventPage, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	CreateEvent(ctx context.Context, token string, in client.EventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, token, id string, in client.EventUpdate) (*domain.Event, error)
	DeleteEvent(ctx context.Context, token, id string) error
	ToggleSave(ctx context.Context, token, id string) (*client.ToggleResult, error)
}

// Session is the auth state shared by the views. *client.AuthStore implements it.
type Session interface {
	Snapshot() client.AuthState
	SetSaved(eventID string, saved bool)
	Logout()
}

// lifecycle is embedded by every view. mu guards the view state; a view checks
// closed under mu before applying a response.
type lifecycle struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

func (l *lifecycle) start(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.logger = logger
}

// Close cancels in-flight requests and retires the view. No state changes after Close returns.
func (l *lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel()
}

func (l *lifecycle) closed() bool {
	return l.ctx.Err() != nil
}

// signedIn returns the token of the current session, or ErrLoginRequired.
func signedIn(s Session) (client.AuthState, error) {
	st := s.Snapshot()
	if !st.IsAuthenticated || st.Token == "" {
		return st, ErrLoginRequired
	}
	return st, nil
}
