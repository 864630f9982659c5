package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_placed_total",
		Help:      "Orders persisted, by payment mode.",
	}, []string{"mode"})

	OrderPlacementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "order_placement_failures_total",
		Help:      "Checkout attempts that failed after validation, by stage.",
	}, []string{"stage"})

	CouponsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "coupons_applied_total",
		Help:      "Orders placed with a coupon, by coupon code.",
	}, []string{"code"})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "order_final_amount",
		Help:      "Final amount of placed orders in whole currency units.",
		Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000},
	})

	OTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "otp_requests_total",
		Help:      "OTP send and verify attempts, by action and result.",
	}, []string{"action", "result"})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "notification_failures_total",
		Help:      "Order notifications that could not be delivered, by channel.",
	}, []string{"channel"})
)
