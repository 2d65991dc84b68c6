package views

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"

	"eventplatform/internal/client"
	"eventplatform/internal/domain"
)

// Filters are the list filters mirrored in the URL query.
type Filters struct {
	Category string
	Location string
}

// FiltersFromQuery reads the filters from a URL query.
func FiltersFromQuery(q url.Values) Filters {
	return Filters{Category: q.Get("category"), Location: q.Get("location")}
}

// Query encodes the non-empty filters.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	return q
}

type ListState struct {
	Events     []*domain.Event
	Filters    Filters
	Page       int
	TotalPages int
	Total      int
	Loading    bool
}

// List is the paginated, filterable event listing.
type List struct {
	lifecycle
	api   EventsAPI
	state ListState
	seq   int
}

// NewList starts on page 1 (or the page in query) with the filters found in query.
func NewList(api EventsAPI, query url.Values, logger *slog.Logger) *List {
	page := 1
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		page = p
	}
	l := &List{
		api: api,
		state: ListState{
			Events:     []*domain.Event{},
			Filters:    FiltersFromQuery(query),
			Page:       page,
			TotalPages: 1,
			Loading:    true,
		},
	}
	l.start(logger)
	return l
}

func (l *List) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	st.Events = slices.Clone(st.Events)
	return st
}

// Query is the URL query matching the current filters.
func (l *List) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Filters.Query()
}

// SetFilter changes one filter ("category" or "location") and goes back to page 1.
func (l *List) SetFilter(name, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch name {
	case "category":
		l.state.Filters.Category = value
	case "location":
		l.state.Filters.Location = value
	default:
		return fmt.Errorf("unknown filter %q", name)
	}
	l.state.Page = 1
	return nil
}

func (l *List) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Page = page
}

// Load fetches the current page. A response for superseded filters or page is dropped.
func (l *List) Load() error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state.Loading = true
	params := client.ListParams{
		Category: l.state.Filters.Category,
		Location: l.state.Filters.Location,
		Page:     l.state.Page,
	}
	l.mu.Unlock()

	page, err := l.api.ListEvents(l.ctx, "", params)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed() {
		return ErrClosed
	}
	if seq != l.seq {
		return nil
	}
	l.state.Loading = false
	if err != nil {
		l.logger.Warn("fetching events failed", "err", err, "page", params.Page)
		return err
	}
	l.state.Events = page.Events
	l.state.TotalPages = max(page.TotalPages, 1)
	l.state.Total = page.Total
	return nil
}
