package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventplatform/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var userRowCols = []string{"id", "username", "email", "password_hash", "salt", "saved_events", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, salt, saved_events, created_at, updated_at\)`).
					WithArgs("alice", "alice@example.com", "hash", "salt", "{}", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
			wantID: "user-uuid-1",
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "duplicate username",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateUsername,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := domain.NewUser("alice", "alice@example.com", "hash", "salt", now, now)
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mock      func(mock sqlmock.Sqlmock)
		wantSaved []string
		errIs     error
	}{
		{
			name: "success with saved events",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash, salt, saved_events, created_at, updated_at\s+FROM users\s+WHERE id = \$1`).
					WithArgs("user-1").
					WillReturnRows(sqlmock.NewRows(userRowCols).
						AddRow("user-1", "alice", "alice@example.com", "hash", "salt", "{ev-1,ev-2}", now, now))
			},
			wantSaved: []string{"ev-1", "ev-2"},
		},
		{
			name: "empty saved events",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("user-1").
					WillReturnRows(sqlmock.NewRows(userRowCols).
						AddRow("user-1", "alice", "alice@example.com", "hash", "salt", "{}", now, now))
			},
			wantSaved: []string{},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("user-1").
					WillReturnError(sql.ErrNoRows)
			},
			errIs: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewUserRepository(db).GetByID(ctx, "user-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "alice", got.Username)
			require.Equal(t, "hash", got.PasswordHash)
			require.Equal(t, tt.wantSaved, got.SavedEvents)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userRowCols).
			AddRow("user-1", "alice", "alice@example.com", "hash", "salt", "{}", now, now))

	got, err := NewUserRepository(db).GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "user-1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateSavedEvents(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		saved   []string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name:  "success",
			saved: []string{"ev-1", "ev-2"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users\s+SET saved_events = \$1, updated_at = NOW\(\)\s+WHERE id = \$2`).
					WithArgs(`{"ev-1","ev-2"}`, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "nil list stored as empty array",
			saved: nil,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs("{}", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "not found zero rows affected",
			saved: []string{},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrUserNotFound,
		},
		{
			name:  "db error",
			saved: []string{},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewUserRepository(db).UpdateSavedEvents(ctx, "user-1", tt.saved)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
