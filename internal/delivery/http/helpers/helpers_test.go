package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventplatform/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{Page: 1, PageSize: 12}},
		{"page=3&limit=5", domain.PaginationParams{Page: 3, PageSize: 5}},
		{"page=0&limit=-1", domain.PaginationParams{Page: 1, PageSize: 12}},
		{"page=abc&limit=xyz", domain.PaginationParams{Page: 1, PageSize: 12}},
		{"limit=1000", domain.PaginationParams{Page: 1, PageSize: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/events?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(r))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(domain.PaginationParams{Page: 2, PageSize: 12}, 25)
	assert.Equal(t, PaginationMeta{Page: 2, Limit: 12, Total: 25, TotalPages: 3}, meta)
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1, PageSize: 12}, 0).TotalPages)
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONError(rec, http.StatusNotFound, ErrCodeNotFound, "Event not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, APIError{Code: "not_found", Message: "Event not found"}, body)
}

type loginDTO struct {
	Email string `json:"email"`
}

func (d loginDTO) Validate() []string {
	if d.Email == "" {
		return []string{"email is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		wantMsg string
	}{
		{name: "valid", body: `{"email":"a@example.com"}`, ok: true},
		{name: "empty body", body: ``, wantMsg: "request body is empty"},
		{name: "unknown field", body: `{"email":"a@example.com","role":"admin"}`, wantMsg: `unknown field "role"`},
		{name: "wrong type", body: `{"email":5}`, wantMsg: "email has the wrong type"},
		{name: "fails validation", body: `{"email":""}`, wantMsg: "email is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dto loginDTO
			ok := DecodeAndValidate(rec, r, &dto)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}
