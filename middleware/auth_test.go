package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newServer(tokens *utils.TokenIssuer) *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger(zap.NewNop()))
	e.GET("/me", func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, id.Hex())
	}, AuthMiddleware(tokens))
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, AuthMiddleware(tokens), RequireAdmin)
	return e
}

func get(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	e := newServer(tokens)

	customer := &models.User{ID: primitive.NewObjectID(), Phone: "+919876543210", Role: models.RoleCustomer}
	token, err := tokens.GenerateJWT(customer)
	assert.NoError(t, err)

	rec := get(e, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, customer.ID.Hex(), rec.Body.String())

	for _, header := range []string{"", "Token " + token, "Bearer", "Bearer not-a-jwt"} {
		rec := get(e, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}

	other := utils.NewTokenIssuer("other", time.Hour)
	forged, err := other.GenerateJWT(customer)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", "Bearer "+forged).Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	e := newServer(tokens)

	customer, err := tokens.GenerateJWT(&models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer})
	assert.NoError(t, err)
	admin, err := tokens.GenerateJWT(&models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(e, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, get(e, "/admin", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusNoContent, get(e, "/admin", "Bearer "+admin).Code)
}
