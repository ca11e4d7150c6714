package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderRevenue(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  string
	}{
		{"total price preferred", Order{Total: decimal.NewFromInt(100), TotalPrice: decimal.NewNullDecimal(decimal.NewFromInt(3000))}, "3000"},
		{"missing total price", Order{Total: decimal.NewFromInt(100)}, "100"},
		{"zero total price falls back", Order{Total: decimal.NewFromInt(100), TotalPrice: decimal.NewNullDecimal(decimal.Zero)}, "100"},
		{"nothing recorded", Order{}, "0"},
	}
	for _, tt := range tests {
		if got := tt.order.Revenue().String(); got != tt.want {
			t.Fatalf("%s: expected %s got %s", tt.name, tt.want, got)
		}
	}
}
