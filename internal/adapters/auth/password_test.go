package auth

import (
	"regexp"
	"strings"
	"testing"

	"eventplatform/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_GenerateSalt(t *testing.T) {
	h := NewBcryptHasher(4)
	hexRe := regexp.MustCompile(`^[0-9a-f]{64}$`)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, hexRe, salt, "salt should be 64 hex characters")
		assert.False(t, seen[salt], "salts should not repeat")
		seen[salt] = true
	}
}

func TestBcryptHasher_Compare(t *testing.T) {
	h := NewBcryptHasher(4)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	otherSalt, err := h.GenerateSalt()
	require.NoError(t, err)
	long := strings.Repeat("p", 100)

	hash, err := h.Hash(salt, "correct-horse")
	require.NoError(t, err)
	longHash, err := h.Hash(salt, long)
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		salt     string
		password string
		wantErr  bool
	}{
		{name: "matching password", hash: hash, salt: salt, password: "correct-horse"},
		{name: "wrong password", hash: hash, salt: salt, password: "wrong", wantErr: true},
		{name: "wrong salt", hash: hash, salt: otherSalt, password: "correct-horse", wantErr: true},
		{name: "password longer than 72 bytes", hash: longHash, salt: salt, password: long},
		{name: "long password differing after 72 bytes", hash: longHash, salt: salt, password: long + "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Compare(tt.hash, tt.salt, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
				return
			}
			assert.NoError(t, err)
		})
	}
}
