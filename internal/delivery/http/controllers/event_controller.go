package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventplatform/internal/delivery/http/helpers"
	"eventplatform/internal/delivery/http/middleware"
	"eventplatform/internal/domain"
)

const msgEventNotFound = "Event not found"

// CreateEventRequest is the request body for POST /events. createdBy is taken from the token.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Date        string `json:"date" validate:"required,eventdate"`
	Time        string `json:"time" validate:"required,max=20"`
	Location    string `json:"location" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,category"`
	Image       string `json:"image" validate:"omitempty,url"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	return domain.ValidateStruct(c)
}

// UpdateEventRequest is the request body for PUT /events/{id}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Date        *string `json:"date" validate:"omitempty,eventdate"`
	Time        *string `json:"time" validate:"omitempty,max=20"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,category"`
	Image       *string `json:"image"`
}

// Validate implements Validator. Rules that need the merged event (required fields, image URL) run in the service.
func (u UpdateEventRequest) Validate() []string {
	return domain.ValidateStruct(u)
}

func (u UpdateEventRequest) patch() domain.EventPatch {
	p := domain.EventPatch{
		Title:       u.Title,
		Description: u.Description,
		Time:        u.Time,
		Location:    u.Location,
		Image:       u.Image,
	}
	if u.Date != nil {
		d, _ := domain.ParseDate(*u.Date)
		p.Date = &d
	}
	if u.Category != nil {
		c := domain.Category(*u.Category)
		p.Category = &c
	}
	return p
}

// ListEventsResponse is the response body for GET /events.
type ListEventsResponse struct {
	Events []*domain.Event `json:"events"`
	helpers.PaginationMeta
}

// ToggleSaveResponse is the response body for POST /events/{id}/save.
type ToggleSaveResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Paginated events sorted by date. Filters combine with AND. saved=true needs a bearer token and returns the caller's saved events.
// @Tags events
// @Produce json
// @Param category query string false "Exact category" Enums(Music, Sports, Art, Food, Technology, Business, Other)
// @Param location query string false "Case-insensitive substring of the location"
// @Param createdBy query string false "Creator user ID"
// @Param saved query bool false "Only the caller's saved events"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 12, max 100)"
// @Success 200 {object} controllers.ListEventsResponse
// @Failure 400 {object} helpers.APIError "code: bad_request"
// @Failure 401 {object} helpers.APIError "code: unauthorized"
// @Failure 500 {object} helpers.APIError "code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Category: domain.Category(strings.TrimSpace(q.Get("category"))),
		Location: strings.TrimSpace(q.Get("location")),
	}
	if filter.Category != "" && !filter.Category.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest,
			"category must be one of: "+strings.Join(domain.CategoryNames(), ", "))
		return
	}
	if createdBy := strings.TrimSpace(q.Get("createdBy")); createdBy != "" {
		if !domain.ValidID(createdBy) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "createdBy must be a valid user id")
			return
		}
		filter.CreatedBy = createdBy
	}
	if q.Get("saved") == "true" {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Login required to list saved events")
			return
		}
		filter.SavedBy = userID
	}
	page := helpers.ParsePagination(r)

	events, total, err := c.Service.ListEvents(r.Context(), filter, page)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.serverError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ListEventsResponse{
		Events:         events,
		PaginationMeta: helpers.NewPaginationMeta(page, total),
	})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with createdBy populated as {id, username}.
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} domain.Event
// @Failure 404 {object} helpers.APIError "code: not_found"
// @Failure 500 {object} helpers.APIError "code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description The authenticated user becomes the creator. id and timestamps are server-generated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.APIError "code: bad_request"
// @Failure 401 {object} helpers.APIError "code: unauthorized"
// @Failure 500 {object} helpers.APIError "code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	date, _ := domain.ParseDate(req.Date)
	event := &domain.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Time:        strings.TrimSpace(req.Time),
		Location:    strings.TrimSpace(req.Location),
		Category:    domain.Category(req.Category),
		Image:       strings.TrimSpace(req.Image),
		CreatedBy:   domain.EventCreator{ID: userID},
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update by the creator. The merged event must still be valid. createdBy cannot be changed.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.APIError "code: bad_request"
// @Failure 401 {object} helpers.APIError "code: unauthorized"
// @Failure 403 {object} helpers.APIError "code: forbidden (not creator)"
// @Failure 404 {object} helpers.APIError "code: not_found"
// @Failure 500 {object} helpers.APIError "code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, userID, req.patch())
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Only the creator can delete an event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.MessageResponse "message: Event deleted"
// @Failure 401 {object} helpers.APIError "code: unauthorized"
// @Failure 403 {object} helpers.APIError "code: forbidden (not creator)"
// @Failure 404 {object} helpers.APIError "code: not_found"
// @Failure 500 {object} helpers.APIError "code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.MessageResponse{Message: "Event deleted"})
}

// ToggleSave godoc
// @Summary Save or unsave an event
// @Description Flips the event's membership in the caller's saved events and returns the resulting state.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ToggleSaveResponse
// @Failure 401 {object} helpers.APIError "code: unauthorized"
// @Failure 404 {object} helpers.APIError "code: not_found"
// @Failure 500 {object} helpers.APIError "code: internal_error"
// @Router /events/{id}/save [post]
func (c *EventController) ToggleSave(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	saved, err := c.Service.ToggleSaved(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "User not found")
			return
		}
		c.writeEventError(w, r, err)
		return
	}
	resp := ToggleSaveResponse{Message: "Event unsaved", Saved: saved}
	if saved {
		resp.Message = "Event saved"
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// eventID reads the {id} path value. Malformed ids cannot name an event, so they get 404.
func eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !domain.ValidID(id) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, msgEventNotFound)
		return "", false
	}
	return id, true
}

func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, msgEventNotFound)
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "Not authorized")
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.serverError(w, r, err)
	}
}

func (c *EventController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
}
