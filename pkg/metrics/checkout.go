package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts order placement outcomes and coupon redemptions.
type CheckoutMetrics struct {
	orders  *prometheus.CounterVec
	coupons *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Order placements by outcome.",
	}, []string{"outcome"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_coupon_redemptions_total",
		Help: "Coupon redemptions by coupon type.",
	}, []string{"type"})
	reg.MustRegister(orders, coupons)
	return &CheckoutMetrics{
		orders:  orders,
		coupons: coupons,
	}
}

// IncOrder counts one placement outcome ("placed" or "failed").
func (m *CheckoutMetrics) IncOrder(outcome string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCouponRedemption counts one redeemed coupon by type.
func (m *CheckoutMetrics) IncCouponRedemption(couponType string) {
	if m == nil || m.coupons == nil {
		return
	}
	m.coupons.WithLabelValues(normalizeLabel(couponType)).Inc()
}
