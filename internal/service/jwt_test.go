// internal/service/jwt_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payflow-wallet/internal/util"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("secret-a")
	verifier := NewJWTService("secret-b")

	token, err := issuer.GenerateToken(42)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, err := svc.ValidateToken("definitely.not.a.token")
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}
