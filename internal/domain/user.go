package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateUsername = errors.New("username already in use")
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	SavedEvents  []string  `json:"savedEvents"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		SavedEvents:  []string{},
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// HasSaved reports whether eventID is in the user's savedEvents.
func (u *User) HasSaved(eventID string) bool {
	for _, id := range u.SavedEvents {
		if SameID(id, eventID) {
			return true
		}
	}
	return false
}

// ToggleSaved removes eventID from savedEvents if present, otherwise appends it.
// It returns true when the event is saved afterwards.
func (u *User) ToggleSaved(eventID string) bool {
	for i, id := range u.SavedEvents {
		if SameID(id, eventID) {
			u.SavedEvents = append(u.SavedEvents[:i:i], u.SavedEvents[i+1:]...)
			return false
		}
	}
	u.SavedEvents = append(u.SavedEvents, eventID)
	return true
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateSavedEvents(ctx context.Context, userID string, savedEvents []string) error
}

// RegisterInput holds the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UserService defines the business logic for registration, authentication and profiles.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *User, err error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
}
