package views

import (
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"eventplatform/internal/client"
	"eventplatform/internal/domain"
)

// DefaultImage is used for new events created without an image.
const DefaultImage = "https://via.placeholder.com/300x200"

// dashboardLimit is the largest page the API serves.
const dashboardLimit = 100

type DashboardState struct {
	MyEvents    []*domain.Event
	SavedEvents []*domain.Event
	Loading     bool
}

// Dashboard lists the events the user created and the events the user saved.
type Dashboard struct {
	lifecycle
	api     EventsAPI
	session Session
	state   DashboardState
}

func NewDashboard(api EventsAPI, session Session, logger *slog.Logger) *Dashboard {
	d := &Dashboard{
		api:     api,
		session: session,
		state:   DashboardState{MyEvents: []*domain.Event{}, SavedEvents: []*domain.Event{}, Loading: true},
	}
	d.start(logger)
	return d
}

func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state
	st.MyEvents = slices.Clone(st.MyEvents)
	st.SavedEvents = slices.Clone(st.SavedEvents)
	return st
}

// Load fetches both lists concurrently. Either failure leaves both lists unchanged.
func (d *Dashboard) Load() error {
	st := d.session.Snapshot()
	if !st.IsAuthenticated || st.Token == "" || st.User == nil {
		return ErrLoginRequired
	}

	var mine, saved *client.EventPage
	g, ctx := errgroup.WithContext(d.ctx)
	g.Go(func() error {
		var err error
		mine, err = d.api.ListEvents(ctx, st.Token, client.ListParams{CreatedBy: st.User.ID, Limit: dashboardLimit})
		return err
	})
	g.Go(func() error {
		var err error
		saved, err = d.api.ListEvents(ctx, st.Token, client.ListParams{Saved: true, Limit: dashboardLimit})
		return err
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return ErrClosed
	}
	d.state.Loading = false
	if err != nil {
		d.logger.Warn("fetching dashboard events failed", "err", err)
		return err
	}
	d.state.MyEvents = mine.Events
	d.state.SavedEvents = saved.Events
	return nil
}

// Create adds an event and reloads both lists.
func (d *Dashboard) Create(in client.EventInput) (*domain.Event, error) {
	st, err := signedIn(d.session)
	if err != nil {
		return nil, err
	}
	if in.Image == "" {
		in.Image = DefaultImage
	}
	ev, err := d.api.CreateEvent(d.ctx, st.Token, in)
	if err != nil {
		if !d.closed() {
			d.logger.Warn("creating event failed", "err", err)
		}
		return nil, err
	}
	return ev, d.Load()
}

// Delete removes one of the user's events and reloads both lists.
func (d *Dashboard) Delete(id string) error {
	st, err := signedIn(d.session)
	if err != nil {
		return err
	}
	if err := d.api.DeleteEvent(d.ctx, st.Token, id); err != nil {
		if !d.closed() {
			d.logger.Warn("deleting event failed", "id", id, "err", err)
		}
		return err
	}
	return d.Load()
}
