package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	secret := []byte("test-secret")
	userID, branchID := uuid.New(), uuid.New()

	token, err := GenerateToken(secret, userID, "Ana", "OPERATOR", branchID, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, branchID, claims.BranchID)
	assert.Equal(t, "OPERATOR", claims.RoleCode)
}

func TestValidateRejects(t *testing.T) {
	secret := []byte("test-secret")

	_, err := ValidateToken(secret, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	token, err := GenerateToken([]byte("other"), uuid.New(), "x", "OPERATOR", uuid.New(), time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(secret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(secret, uuid.New(), "x", "OPERATOR", uuid.New(), -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = GenerateToken(nil, uuid.New(), "x", "OPERATOR", uuid.New(), time.Hour)
	assert.ErrorIs(t, err, ErrMissingKey)
}
