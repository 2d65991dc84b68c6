package views

import (
	"log/slog"
	"slices"

	"eventplatform/internal/client"
	"eventplatform/internal/domain"
)

const upcomingCount = 6

type HomeState struct {
	Upcoming   []*domain.Event
	Categories []domain.Category
	Loading    bool
}

// Home shows the categories and the first upcoming events.
type Home struct {
	lifecycle
	api   EventsAPI
	state HomeState
}

func NewHome(api EventsAPI, logger *slog.Logger) *Home {
	h := &Home{
		api:   api,
		state: HomeState{Upcoming: []*domain.Event{}, Categories: domain.Categories, Loading: true},
	}
	h.start(logger)
	return h
}

func (h *Home) State() HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.state
	st.Upcoming = slices.Clone(st.Upcoming)
	return st
}

// Load fetches the first page of events and keeps the earliest ones.
func (h *Home) Load() error {
	page, err := h.api.ListEvents(h.ctx, "", client.ListParams{Page: 1})

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed() {
		return ErrClosed
	}
	h.state.Loading = false
	if err != nil {
		h.logger.Warn("fetching upcoming events failed", "err", err)
		return err
	}
	events := page.Events
	if len(events) > upcomingCount {
		events = events[:upcomingCount]
	}
	h.state.Upcoming = events
	return nil
}
