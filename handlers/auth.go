package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OTPLogin interface {
	Send(ctx context.Context, rawPhone string) (string, error)
	Verify(ctx context.Context, rawPhone, code string) (auth.Session, error)
}

type AuthHandler struct {
	otp     OTPLogin
	timeout time.Duration
	log     *zap.Logger
}

func NewAuthHandler(otp OTPLogin, timeout time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{otp: otp, timeout: timeout, log: log}
}

type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	phone, err := h.otp.Send(ctx, req.Phone)
	if err != nil {
		return respondError(c, h.log, err, "Failed to send OTP")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "OTP sent",
		"phone":   phone,
	})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.otp.Verify(ctx, req.Phone, req.Code)
	if err != nil {
		return respondError(c, h.log, err, "Failed to verify OTP")
	}
	return c.JSON(http.StatusOK, session)
}
