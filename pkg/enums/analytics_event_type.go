package enums

import "fmt"

// AnalyticsEventType is the canonical event_type for storefront analytics.
type AnalyticsEventType string

const (
	AnalyticsEventPageView     AnalyticsEventType = "page_view"
	AnalyticsEventProductView  AnalyticsEventType = "product_view"
	AnalyticsEventAddToCart    AnalyticsEventType = "add_to_cart"
	AnalyticsEventCartCleared  AnalyticsEventType = "cart_cleared"
	AnalyticsEventRFQSubmitted AnalyticsEventType = "rfq_submitted"
	AnalyticsEventSearch       AnalyticsEventType = "search"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventPageView,
	AnalyticsEventProductView,
	AnalyticsEventAddToCart,
	AnalyticsEventCartCleared,
	AnalyticsEventRFQSubmitted,
	AnalyticsEventSearch,
}

// AnalyticsEventTypes returns the canonical event types in a stable order.
func AnalyticsEventTypes() []AnalyticsEventType {
	out := make([]AnalyticsEventType, len(validAnalyticsEventTypes))
	copy(out, validAnalyticsEventTypes)
	return out
}

// IsValid reports whether the value matches the canonical analytics event_type enum.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
