package enums

import "fmt"

// DeliveryStatus tracks the courier leg of a recorded order.
type DeliveryStatus string

const (
	DeliveryStatusConfirmed DeliveryStatus = "confirmed"
	DeliveryStatusPacked    DeliveryStatus = "packed"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusReturned  DeliveryStatus = "returned"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusConfirmed,
	DeliveryStatusPacked,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusReturned,
}

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
