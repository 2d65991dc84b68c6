package views

import (
	"log/slog"

	"eventplatform/internal/client"
	"eventplatform/internal/domain"
)

type DetailState struct {
	Event   *domain.Event
	IsSaved bool
	IsOwner bool
	Loading bool
	Deleted bool
}

// Detail shows one event and lets the signed-in user save it or, as its creator,
// edit or delete it.
type Detail struct {
	lifecycle
	api     EventsAPI
	session Session
	id      string
	state   DetailState
}

func NewDetail(api EventsAPI, session Session, id string, logger *slog.Logger) *Detail {
	d := &Detail{api: api, session: session, id: id, state: DetailState{Loading: true}}
	d.start(logger)
	return d
}

func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state
	if st.Event != nil {
		ev := *st.Event
		st.Event = &ev
	}
	return st
}

// Load fetches the event. IsSaved and IsOwner are derived from the current user.
func (d *Detail) Load() error {
	ev, err := d.api.GetEvent(d.ctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return ErrClosed
	}
	d.state.Loading = false
	if err != nil {
		d.logger.Warn("fetching event failed", "id", d.id, "err", err)
		return err
	}
	d.setEvent(ev)
	return nil
}

// ToggleSave flips the saved state and records the state the server reports.
func (d *Detail) ToggleSave() error {
	st, err := signedIn(d.session)
	if err != nil {
		return err
	}
	res, err := d.api.ToggleSave(d.ctx, st.Token, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return ErrClosed
	}
	if err != nil {
		d.logger.Warn("toggling saved event failed", "id", d.id, "err", err)
		return err
	}
	d.state.IsSaved = res.Saved
	d.session.SetSaved(d.id, res.Saved)
	return nil
}

// Edit sends a partial update and then re-fetches the event.
func (d *Detail) Edit(in client.EventUpdate) error {
	st, err := signedIn(d.session)
	if err != nil {
		return err
	}
	if _, err := d.api.UpdateEvent(d.ctx, st.Token, d.id, in); err != nil {
		if !d.closed() {
			d.logger.Warn("updating event failed", "id", d.id, "err", err)
		}
		return err
	}
	return d.Load()
}

// Delete removes the event. The view is marked Deleted on success.
func (d *Detail) Delete() error {
	st, err := signedIn(d.session)
	if err != nil {
		return err
	}
	err = d.api.DeleteEvent(d.ctx, st.Token, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return ErrClosed
	}
	if err != nil {
		d.logger.Warn("deleting event failed", "id", d.id, "err", err)
		return err
	}
	d.state.Deleted = true
	return nil
}

func (d *Detail) setEvent(ev *domain.Event) {
	d.state.Event = ev
	user := d.session.Snapshot().User
	d.state.IsSaved = user != nil && user.HasSaved(ev.ID)
	d.state.IsOwner = user != nil && domain.SameID(ev.CreatedBy.ID, user.ID)
}
