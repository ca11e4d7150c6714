package enums

import "fmt"

// OrderStatus tracks a locally recorded order in a shopper's history.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderRecordStatus tracks a persisted order record.
type OrderRecordStatus string

const (
	OrderRecordStatusPending   OrderRecordStatus = "pending"
	OrderRecordStatusPaid      OrderRecordStatus = "paid"
	OrderRecordStatusShipped   OrderRecordStatus = "shipped"
	OrderRecordStatusDelivered OrderRecordStatus = "delivered"
	OrderRecordStatusCancelled OrderRecordStatus = "cancelled"
)

var validOrderRecordStatuses = []OrderRecordStatus{
	OrderRecordStatusPending,
	OrderRecordStatusPaid,
	OrderRecordStatusShipped,
	OrderRecordStatusDelivered,
	OrderRecordStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderRecordStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderRecordStatus.
func (s OrderRecordStatus) IsValid() bool {
	for _, candidate := range validOrderRecordStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderRecordStatus converts raw input into an OrderRecordStatus.
func ParseOrderRecordStatus(value string) (OrderRecordStatus, error) {
	for _, candidate := range validOrderRecordStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order record status %q", value)
}
