package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	District    string `json:"district"`
	HomeAddress string `json:"homeAddress"`
	Country     string `json:"country"`
}

// IsZero reports whether no field was captured.
func (s ShippingAddress) IsZero() bool {
	return s == ShippingAddress{}
}

// Value serializes the address to JSON.
func (s ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan decodes JSONB into the address struct.
func (s *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*s = ShippingAddress{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
