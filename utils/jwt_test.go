package utils

import (
	"testing"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 72*time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Phone: "+919876543210", Role: models.RoleAdmin}

	token, err := issuer.GenerateJWT(u)
	require.NoError(t, err)

	claims, err := issuer.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, u.Phone, claims.Phone)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}

	other := NewTokenIssuer("other", time.Hour)
	token, err := other.GenerateJWT(u)
	require.NoError(t, err)
	_, err = issuer.ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.GenerateJWT(u)
	require.NoError(t, err)
	_, err = issuer.ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ValidateJWT("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
