package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "Valid password", password: "password123"},
		{name: "Too short", password: "short", wantErr: ErrPasswordTooShort},
		{name: "Empty password", password: "", wantErr: ErrPasswordTooShort},
		{name: "Long password", password: "this-is-a-very-long-password-with-special-chars!@#$%^&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.Contains(t, hash, "$2a$")
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("mySecurePassword123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "mySecurePassword123"))
	assert.False(t, VerifyPassword(hash, "wrongPassword"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("invalid-hash", "mySecurePassword123"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	hash1, err := HashPassword("testPassword")
	require.NoError(t, err)
	hash2, err := HashPassword("testPassword")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, VerifyPassword(hash1, "testPassword"))
	assert.True(t, VerifyPassword(hash2, "testPassword"))
}
