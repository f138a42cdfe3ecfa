package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, "test")

	token, issued, err := m.GenerateToken("admin", "ADMIN", []string{"product:create"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "ADMIN", claims.RoleCode)
	assert.Equal(t, []string{"product:create"}, claims.Privileges)
	assert.Equal(t, issued.SessionID, claims.SessionID)
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewManager("one", time.Hour, "test").GenerateToken("x", "STAFF", nil)
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, "test").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute, "test")
	m.expiry = -time.Minute

	token, _, err := m.GenerateToken("x", "STAFF", nil)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_MissingToken(t *testing.T) {
	_, err := NewManager("secret", time.Hour, "test").ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
