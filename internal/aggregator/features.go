package aggregator

import "github.com/loopwork/credo/internal/domain"

// Canonical feature keys per role. The scoring model expects every key to
// be present; unrecorded features are sent as explicit zeroes.
var roleFeatureKeys = map[domain.Role][]string{
	domain.RoleDriver: {
		"login_rate", "streak_days", "rides_30d", "on_time_rate",
		"cancellation_rate", "rating", "avg_ride_distance", "peak_hour_rides",
		"late_pickup_rate", "customer_complaints", "ratings_std",
		"total_hours_worked", "review_count", "rating_variance",
		"avg_review_length", "logins_per_day", "std_login_time",
		"account_age_days",
	},
	domain.RoleMerchant: {
		"login_rate", "streak_days", "sales_30d", "order_fulfillment_rate",
		"return_rate", "rating", "avg_order_value", "peak_hour_sales",
		"complaints_received", "new_customers_acquired", "repeat_customer_rate",
		"total_hours_operated", "review_count", "rating_variance",
		"avg_review_length", "logins_per_day", "std_login_time",
		"account_age_days",
	},
	domain.RoleDelivery: {
		"login_rate", "streak_days", "deliveries_30d", "on_time_delivery_rate",
		"cancellation_rate", "rating", "avg_delivery_distance",
		"peak_hour_deliveries", "late_delivery_rate", "customer_complaints",
		"ratings_std", "total_hours_worked", "review_count", "rating_variance",
		"avg_review_length", "logins_per_day", "std_login_time",
		"account_age_days",
	},
}

// featureVector builds the complete, well-typed vector for a profile:
// every canonical key of the role, defaulting to 0 where unrecorded.
func featureVector(p *domain.RoleProfile) map[string]float64 {
	keys := roleFeatureKeys[p.Role]
	out := make(map[string]float64, len(keys))
	for _, key := range keys {
		out[key] = p.Feature(key)
	}
	return out
}
