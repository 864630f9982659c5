package handlers

import (
	"errors"
	"net/http"

	"github.com/imaginarygifts/storefront-backend-go/auth"
	"github.com/imaginarygifts/storefront-backend-go/checkout"
	"github.com/imaginarygifts/storefront-backend-go/database"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/orderquery"
	"github.com/imaginarygifts/storefront-backend-go/payment"
	"github.com/imaginarygifts/storefront-backend-go/pricing"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorStatus maps domain errors to HTTP status codes. Client errors keep
// their message; anything else is reported generically.
func errorStatus(err error) (int, bool) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, pricing.ErrInvalidCoupon),
		errors.Is(err, pricing.ErrCouponNotApplicable),
		errors.Is(err, checkout.ErrUnknownVariant),
		errors.Is(err, checkout.ErrPaymentModeUnavailable),
		errors.Is(err, checkout.ErrPaymentRequired),
		errors.Is(err, checkout.ErrNothingToPay),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidPaymentMode),
		errors.Is(err, orderquery.ErrInvalidRange),
		errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, auth.ErrMissingCode):
		return http.StatusBadRequest, true
	case errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrCodeExpired):
		return http.StatusUnauthorized, true
	case errors.Is(err, checkout.ErrPaymentAmountMismatch),
		errors.Is(err, checkout.ErrPaymentAlreadyUsed),
		errors.Is(err, checkout.ErrOrderAlreadyPaid):
		return http.StatusConflict, true
	case errors.Is(err, auth.ErrResendTooSoon),
		errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests, true
	case errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrIntentNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, payment.ErrGatewayUnavailable),
		errors.Is(err, payment.ErrGatewayRejected):
		return http.StatusBadGateway, false
	}
	return http.StatusInternalServerError, false
}

func respondError(c echo.Context, log *zap.Logger, err error, fallback string) error {
	status, expose := errorStatus(err)
	msg := fallback
	if expose {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.Error(fallback,
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}
	return c.JSON(status, map[string]string{"error": msg})
}
