package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/database"
	"github.com/imaginarygifts/storefront-backend-go/middleware"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProfileStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, p database.Profile) (*models.User, error)
}

type UserHandler struct {
	users   ProfileStore
	timeout time.Duration
	log     *zap.Logger
}

func NewUserHandler(users ProfileStore, timeout time.Duration, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, timeout: timeout, log: log}
}

func (h *UserHandler) GetUserProfile(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUserProfile(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req database.Profile
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.Pincode = strings.TrimSpace(req.Pincode)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}
