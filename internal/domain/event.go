package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category is the fixed set of event categories.
type Category string

const (
	CategoryMusic      Category = "Music"
	CategorySports     Category = "Sports"
	CategoryArt        Category = "Art"
	CategoryFood       Category = "Food"
	CategoryTechnology Category = "Technology"
	CategoryBusiness   Category = "Business"
	CategoryOther      Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryMusic,
	CategorySports,
	CategoryArt,
	CategoryFood,
	CategoryTechnology,
	CategoryBusiness,
	CategoryOther,
}

// Valid reports whether c is one of Categories. Matching is exact.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryNames returns the category names as strings.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// DateLayout is the wire and storage format of an event date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day, always held at UTC midnight.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp (whose date part is kept).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte(`null`)) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// EventCreator references the user who created an event. When Username is set the
// reference has been resolved and serializes as {"id","username"}; otherwise it
// serializes as the bare id string.
type EventCreator struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

func (c EventCreator) MarshalJSON() ([]byte, error) {
	if c.Username == "" {
		return json.Marshal(c.ID)
	}
	type resolved EventCreator
	return json.Marshal(resolved(c))
}

func (c *EventCreator) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*c = EventCreator{ID: id}
		return nil
	}
	type resolved EventCreator
	var r resolved
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*c = EventCreator(r)
	return nil
}

// Event represents a schedulable happening owned by the user that created it.
// swagger:model Event
type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"required,max=5000"`
	Date        Date         `json:"date" validate:"required"`
	Time        string       `json:"time" validate:"required,max=20"`
	Location    string       `json:"location" validate:"required,max=200"`
	Category    Category     `json:"category" validate:"required,category"`
	Image       string       `json:"image" validate:"omitempty,url"`
	CreatedBy   EventCreator `json:"createdBy" validate:"required"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewEvent returns a new Event owned by createdBy. ID is typically set by the repository on create.
func NewEvent(title, description string, date Date, timeOfDay, location string, category Category, image, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Time:        timeOfDay,
		Location:    location,
		Category:    category,
		Image:       image,
		CreatedBy:   EventCreator{ID: createdBy},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Validate checks the event's field rules and returns an error matching ErrValidation on failure.
func (e *Event) Validate() error {
	if msgs := ValidateStruct(e); len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}

// EventPatch holds the fields of a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *Date
	Time        *string
	Location    *string
	Category    *Category
	Image       *string
}

// Apply merges the non-nil fields of p into e, trimming the same fields a create does.
// CreatedBy is never touched.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = strings.TrimSpace(*p.Time)
	}
	if p.Location != nil {
		e.Location = strings.TrimSpace(*p.Location)
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Image != nil {
		e.Image = strings.TrimSpace(*p.Image)
	}
}

// EventFilter narrows an event listing. Zero fields do not filter.
type EventFilter struct {
	Category  Category
	Location  string // case-insensitive substring
	CreatedBy string // creator user ID
	SavedBy   string // restrict to the savedEvents of this user ID
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	// GetByID returns the event with CreatedBy resolved to the creator's username.
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns one page of matching events sorted by date ascending, and the total match count.
	List(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for listing and managing events.
type EventService interface {
	ListEvents(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id, callerID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id, callerID string) error
	// ToggleSaved flips the event's membership in the caller's savedEvents and returns the resulting state.
	ToggleSaved(ctx context.Context, id, callerID string) (saved bool, err error)
}
