package basket

import (
	"time"

	"github.com/bdshop/storefront-backend/pkg/enums"
)

// StorageKey names the persisted blob holding a profile's basket and orders.
const StorageKey = "basket-orders-storage"

// ProductRef is the slice of a catalog product the basket needs. Only ID and
// Price are interpreted; the rest is carried for display.
type ProductRef struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Price *float64 `json:"price,omitempty"`
	Image string   `json:"image,omitempty"`
	Slug  string   `json:"slug,omitempty"`
}

// BasketItem is one basket line. Quantity is always at least 1.
type BasketItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// Order is an entry in the local order history. ID and SessionID both hold the
// checkout session id in every current call site.
type Order struct {
	ID          string            `json:"id"`
	OrderNumber string            `json:"orderNumber"`
	Items       []BasketItem      `json:"items"`
	Total       float64           `json:"total"`
	Status      enums.OrderStatus `json:"status"`
	OrderDate   time.Time         `json:"orderDate"`
	SessionID   string            `json:"sessionId"`
}

// State is the persisted blob: the basket plus the newest-first order history.
type State struct {
	Basket []BasketItem `json:"basket"`
	Orders []Order      `json:"orders"`
}

func copyItems(items []BasketItem) []BasketItem {
	out := make([]BasketItem, len(items))
	copy(out, items)
	return out
}

func copyOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		o.Items = copyItems(o.Items)
		out[i] = o
	}
	return out
}
