package views

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"eventplatform/internal/client"
	"eventplatform/internal/domain"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAPI implements EventsAPI; nil funcs return zero values.
type fakeAPI struct {
	mu    sync.Mutex
	lists []client.ListParams
	calls []string

	list   func(ctx context.Context, token string, p client.ListParams) (*client.EventPage, error)
	get    func(ctx context.Context, id string) (*domain.Event, error)
	create func(ctx context.Context, token string, in client.EventInput) (*domain.Event, error)
	update func(ctx context.Context, token, id string, in client.EventUpdate) (*domain.Event, error)
	del    func(ctx context.Context, token, id string) error
	toggle func(ctx context.Context, token, id string) (*client.ToggleResult, error)
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) ListEvents(ctx context.Context, token string, p client.ListParams) (*client.EventPage, error) {
	f.mu.Lock()
	f.lists = append(f.lists, p)
	f.mu.Unlock()
	f.record("list")
	if f.list == nil {
		return &client.EventPage{Events: []*domain.Event{}}, nil
	}
	return f.list(ctx, token, p)
}

func (f *fakeAPI) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.record("get")
	return f.get(ctx, id)
}

func (f *fakeAPI) CreateEvent(ctx context.Context, token string, in client.EventInput) (*domain.Event, error) {
	f.record("create")
	return f.create(ctx, token, in)
}

func (f *fakeAPI) UpdateEvent(ctx context.Context, token, id string, in client.EventUpdate) (*domain.Event, error) {
	f.record("update")
	return f.update(ctx, token, id, in)
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, token, id string) error {
	f.record("delete")
	return f.del(ctx, token, id)
}

func (f *fakeAPI) ToggleSave(ctx context.Context, token, id string) (*client.ToggleResult, error) {
	f.record("toggle")
	return f.toggle(ctx, token, id)
}

// fakeSession implements Session.
type fakeSession struct {
	state     client.AuthState
	loggedOut bool
}

func signedInSession(userID string, saved ...string) *fakeSession {
	return &fakeSession{state: client.AuthState{
		User:            &domain.User{ID: userID, Username: "alice", SavedEvents: saved},
		Token:           "jwt",
		IsAuthenticated: true,
	}}
}

func (s *fakeSession) Snapshot() client.AuthState { return s.state }

func (s *fakeSession) SetSaved(eventID string, saved bool) {
	if s.state.User != nil && s.state.User.HasSaved(eventID) != saved {
		s.state.User.ToggleSaved(eventID)
	}
}

func (s *fakeSession) Logout() {
	s.loggedOut = true
	s.state = client.AuthState{}
}

func events(ids ...string) []*domain.Event {
	out := make([]*domain.Event, len(ids))
	for i, id := range ids {
		out[i] = &domain.Event{ID: id, Title: "Event " + id, CreatedBy: domain.EventCreator{ID: "u1"}}
	}
	return out
}
