package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClaims = Claims{
	UserID:     "user-1",
	EmployeeID: "emp-1",
	BusinessID: "biz-1",
	Role:       employee.RoleManager,
}

func TestGenerateAccessToken_RoundTripsClaims(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(testClaims)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := ClaimsFromMap(decoded.PrivateClaims())
	require.NoError(t, err)
	assert.Equal(t, testClaims, claims)
}

func TestGenerateAccessToken_RejectsIncompleteClaims(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, _, err := svc.GenerateAccessToken(Claims{UserID: "user-1", Role: employee.RoleOwner})
	assert.Error(t, err)

	bad := testClaims
	bad.Role = "admin"
	_, _, err = svc.GenerateAccessToken(bad)
	assert.Error(t, err)
}

func TestStreamToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresIn, err := svc.GenerateStreamToken(testClaims)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	claims, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, testClaims, claims)

	accessToken, _, err := svc.GenerateAccessToken(testClaims)
	require.NoError(t, err)
	_, err = svc.ValidateStreamToken(accessToken)
	assert.Error(t, err, "access tokens must not open the stream")

	other := NewJWTService("other-secret", time.Hour)
	_, err = other.ValidateStreamToken(token)
	assert.Error(t, err)
}
