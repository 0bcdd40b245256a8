package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "ravi", "Admin", "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "ravi", claims.UserName)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("a", time.Hour).GenerateToken(uuid.New(), "x", "Operator", "v")
	require.NoError(t, err)

	_, err = NewManager("b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("s", -time.Minute)
	token, err := m.GenerateToken(uuid.New(), "x", "Operator", "v")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewManager("s", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
