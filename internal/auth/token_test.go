package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/auth"
	"solarhub/internal/config"
	"solarhub/internal/domain"
)

func TestHMACValidator_RoundTrip(t *testing.T) {
	v := auth.NewHMACValidator(config.JWTConfig{Secret: "s3cret", Issuer: "solarhub"})
	user := uuid.New()

	token, err := v.Sign(user, "ops@solarhub.ae", domain.RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "ops@solarhub.ae", claims.Email)
}

func TestHMACValidator_Rejects(t *testing.T) {
	v := auth.NewHMACValidator(config.JWTConfig{Secret: "s3cret", Issuer: "solarhub"})
	other := auth.NewHMACValidator(config.JWTConfig{Secret: "different", Issuer: "solarhub"})
	foreignIssuer := auth.NewHMACValidator(config.JWTConfig{Secret: "s3cret", Issuer: "elsewhere"})

	expired, err := v.Sign(uuid.New(), "", domain.RoleClient, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := other.Sign(uuid.New(), "", domain.RoleClient, time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := foreignIssuer.Sign(uuid.New(), "", domain.RoleClient, time.Minute)
	require.NoError(t, err)
	badRole, err := v.Sign(uuid.New(), "", "root", time.Minute)
	require.NoError(t, err)
	noUser, err := v.Sign(uuid.Nil, "", domain.RoleClient, time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"bad role":     badRole,
		"no user":      noUser,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.ValidateToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
