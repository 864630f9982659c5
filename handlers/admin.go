package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/notify"
	"github.com/imaginarygifts/storefront-backend-go/orderquery"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AdminOrderStore interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
}

type AdminCatalog interface {
	CategoryNames(ctx context.Context) (map[string]string, error)
	CountProducts(ctx context.Context) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	orders  AdminOrderStore
	catalog AdminCatalog
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewAdminHandler(orders AdminOrderStore, catalog AdminCatalog, timeout time.Duration, log *zap.Logger) *AdminHandler {
	return &AdminHandler{orders: orders, catalog: catalog, timeout: timeout, log: log, now: time.Now}
}

type OrderListResponse struct {
	orderquery.Page
	Range   string                   `json:"range"`
	Options orderquery.FilterOptions `json:"options"`
}

// criteria reads the admin filter query parameters.
func criteria(c echo.Context) (orderquery.Criteria, error) {
	rng, err := orderquery.ParseRange(c.QueryParam("range"))
	if err != nil {
		return orderquery.Criteria{}, err
	}
	crit := orderquery.Criteria{
		Range:      rng,
		ProductID:  strings.TrimSpace(c.QueryParam("product")),
		CategoryID: strings.TrimSpace(c.QueryParam("category")),
		Tag:        strings.TrimSpace(c.QueryParam("tag")),
		Search:     c.QueryParam("search"),
	}
	if s := c.QueryParam("status"); s != "" {
		if crit.Status, err = models.ParseOrderStatus(s); err != nil {
			return orderquery.Criteria{}, err
		}
	}
	if m := c.QueryParam("payment"); m != "" {
		if crit.PaymentMode, err = models.ParsePaymentMode(m); err != nil {
			return orderquery.Criteria{}, err
		}
	}
	return crit, nil
}

// ListOrders filters the full order list in memory and returns one page along
// with the dropdown options built from every order.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	crit, err := criteria(c)
	if err != nil {
		return respondError(c, h.log, err, "Invalid filter")
	}
	page := 1
	if p := c.QueryParam("page"); p != "" {
		if page, err = strconv.Atoi(p); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid page"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch orders")
	}
	names, err := h.catalog.CategoryNames(ctx)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch categories")
	}

	filtered := orderquery.Filter(orders, crit, h.now())
	return c.JSON(http.StatusOK, OrderListResponse{
		Page:    orderquery.Paginate(filtered, page),
		Range:   crit.Range.String(),
		Options: orderquery.Options(orders, names),
	})
}

type OrderDetailResponse struct {
	Order             *models.Order        `json:"order"`
	CustomerWhatsApp  string               `json:"customerWhatsApp"`
	AvailableStatuses []models.OrderStatus `json:"availableStatuses"`
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch order")
	}
	return c.JSON(http.StatusOK, OrderDetailResponse{
		Order:             order,
		CustomerWhatsApp:  notify.CustomerLink(order.Customer.Phone),
		AvailableStatuses: models.OrderStatuses(),
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return respondError(c, h.log, err, "Invalid status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.orders.UpdateStatus(ctx, c.Param("id"), status, h.now())
	if err != nil {
		return respondError(c, h.log, err, "Failed to update order status")
	}

	h.log.Info("order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(status)))
	return c.JSON(http.StatusOK, order)
}

type Stats struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Orders     int64 `json:"orders"`
}

func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var (
		s   Stats
		err error
	)
	if s.Products, err = h.catalog.CountProducts(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to load stats")
	}
	if s.Categories, err = h.catalog.CountCategories(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to load stats")
	}
	if s.Orders, err = h.orders.Count(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to load stats")
	}
	return c.JSON(http.StatusOK, s)
}
