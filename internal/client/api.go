package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventplatform/internal/domain"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

// AuthResult is the body returned by login and register.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// RegisterInput is the body for register.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListParams selects a page of events. Zero fields are omitted from the query.
type ListParams struct {
	Category  string
	Location  string
	CreatedBy string
	Saved     bool
	Page      int
	Limit     int
}

// Query encodes p as URL query values.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if p.CreatedBy != "" {
		q.Set("createdBy", p.CreatedBy)
	}
	if p.Saved {
		q.Set("saved", "true")
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// EventPage is one page of the event listing.
type EventPage struct {
	Events     []*domain.Event `json:"events"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

// EventInput is the body for creating an event.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

// EventUpdate is a partial update. Nil fields are not sent.
type EventUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Location    *string `json:"location,omitempty"`
	Category    *string `json:"category,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// ToggleResult is the body returned by the save toggle.
type ToggleResult struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Client calls the event platform API. Methods that need a session take the token
// explicitly; an empty token sends no Authorization header.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for the API rooted at baseURL (e.g. http://localhost:8080/api).
// A nil httpClient uses one with a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/users/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEvents fetches a page of events. token is only needed when p.Saved is set.
func (c *Client) ListEvents(ctx context.Context, token string, p ListParams) (*EventPage, error) {
	path := "/events"
	if q := p.Query().Encode(); q != "" {
		path += "?" + q
	}
	var out EventPage
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	if out.Events == nil {
		out.Events = []*domain.Event{}
	}
	return &out, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, in EventInput) (*domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodPost, "/events", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, token, id string, in EventUpdate) (*domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), token, nil, &messageBody{})
}

func (c *Client) ToggleSave(ctx context.Context, token, id string) (*ToggleResult, error) {
	var out ToggleResult
	if err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(id)+"/save", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e); err == nil {
			apiErr.Code, apiErr.Message = e.Code, e.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
