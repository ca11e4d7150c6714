package basket

import (
	"testing"
	"time"

	"github.com/bdshop/storefront-backend/pkg/enums"
)

func price(v float64) *float64 { return &v }

func product(id string, p *float64) ProductRef {
	return ProductRef{ID: id, Title: "Product " + id, Price: p, Slug: "product-" + id}
}

func order(id, sessionID string) Order {
	return Order{
		ID:          id,
		OrderNumber: "ORD-" + id,
		Status:      enums.OrderStatusProcessing,
		OrderDate:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		SessionID:   sessionID,
	}
}

func TestAddToBasketAccumulatesQuantity(t *testing.T) {
	store := NewStore(State{})
	p := product("p1", price(10))
	for i := 0; i < 4; i++ {
		store.AddToBasket(p)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(items))
	}
	if items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", items[0].Quantity)
	}
}

func TestAddToBasketPreservesInsertionOrder(t *testing.T) {
	store := NewStore(State{})
	store.AddToBasket(product("b", nil))
	store.AddToBasket(product("a", nil))
	store.AddToBasket(product("b", nil))

	items := store.Items()
	if items[0].Product.ID != "b" || items[1].Product.ID != "a" {
		t.Fatalf("unexpected order %+v", items)
	}
}

func TestRemoveFromBasketFloorsAtAbsent(t *testing.T) {
	store := NewStore(State{})
	p := product("p1", price(3))
	for i := 0; i < 3; i++ {
		store.AddToBasket(p)
	}
	for i := 0; i < 3; i++ {
		store.RemoveFromBasket(p.ID)
	}
	if got := store.ItemCount(p.ID); got != 0 {
		t.Fatalf("expected item to be absent, got quantity %d", got)
	}
	if len(store.Items()) != 0 {
		t.Fatalf("expected empty basket")
	}

	store.RemoveFromBasket(p.ID)
	if got := store.ItemCount(p.ID); got != 0 {
		t.Fatalf("expected extra removal to be a no-op, got %d", got)
	}
}

func TestRemoveItemCompletely(t *testing.T) {
	store := NewStore(State{})
	store.AddToBasket(product("p1", price(1)))
	store.AddToBasket(product("p1", price(1)))
	store.AddToBasket(product("p2", price(1)))

	store.RemoveItemCompletely("p1")
	store.RemoveItemCompletely("missing")

	items := store.Items()
	if len(items) != 1 || items[0].Product.ID != "p2" {
		t.Fatalf("unexpected basket %+v", items)
	}
}

func TestTotalPrice(t *testing.T) {
	store := NewStore(State{})
	store.AddToBasket(product("p1", price(10)))
	store.AddToBasket(product("p1", price(10)))
	store.AddToBasket(product("p2", price(5)))

	if got := store.TotalPrice(); got != 25 {
		t.Fatalf("expected total 25, got %v", got)
	}
}

func TestTotalPriceTreatsMissingPriceAsZero(t *testing.T) {
	store := NewStore(State{})
	for i := 0; i < 3; i++ {
		store.AddToBasket(product("free", nil))
	}
	store.AddToBasket(product("p2", price(7.5)))

	if got := store.TotalPrice(); got != 7.5 {
		t.Fatalf("expected missing price to contribute 0, got %v", got)
	}
}

func TestAddOrderSessionGuardFiresEvenIfIDDiffers(t *testing.T) {
	store := NewStore(State{})
	if !store.AddOrder(order("o1", "cs_1")) {
		t.Fatal("expected first order to be added")
	}
	if store.AddOrder(order("o2", "cs_1")) {
		t.Fatal("expected order sharing session id to be rejected")
	}
	if store.AddOrder(order("o1", "cs_2")) {
		t.Fatal("expected order sharing id to be rejected")
	}
	if got := len(store.Orders()); got != 1 {
		t.Fatalf("expected history length 1, got %d", got)
	}
}

func TestAddOrderPrependsNewest(t *testing.T) {
	store := NewStore(State{})
	store.AddOrder(order("cs_1", "cs_1"))
	store.AddOrder(order("cs_2", "cs_2"))

	orders := store.Orders()
	if orders[0].SessionID != "cs_2" || orders[1].SessionID != "cs_1" {
		t.Fatalf("expected newest first, got %+v", orders)
	}
}

func TestCleanupDuplicateOrdersKeepsFirstPerSession(t *testing.T) {
	a := order("A", "s1")
	b := order("B", "s1")
	c := order("C", "s2")
	store := NewStore(State{Orders: []Order{a, b, c}})

	if removed := store.CleanupDuplicateOrders(); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	orders := store.Orders()
	if len(orders) != 2 || orders[0].ID != "A" || orders[1].ID != "C" {
		t.Fatalf("expected [A, C], got %+v", orders)
	}
	if removed := store.CleanupDuplicateOrders(); removed != 0 {
		t.Fatalf("expected second cleanup to remove nothing, got %d", removed)
	}
}

func TestClearBasket(t *testing.T) {
	store := NewStore(State{})
	store.AddToBasket(product("p1", price(4)))
	store.ClearBasket()

	if items := store.Items(); items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", items)
	}
	if got := store.TotalPrice(); got != 0 {
		t.Fatalf("expected total 0, got %v", got)
	}
}

func TestClearAllOrders(t *testing.T) {
	store := NewStore(State{Orders: []Order{order("A", "s1")}})
	store.ClearAllOrders()
	if len(store.Orders()) != 0 {
		t.Fatal("expected empty history")
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	store := NewStore(State{})
	store.AddToBasket(product("p1", price(1)))
	store.AddOrder(Order{ID: "o", SessionID: "o", Items: store.Items()})

	items := store.Items()
	items[0].Quantity = 99
	orders := store.Orders()
	orders[0].Items[0].Quantity = 42

	if store.ItemCount("p1") != 1 {
		t.Fatal("mutating Items() result leaked into the store")
	}
	if store.Orders()[0].Items[0].Quantity != 1 {
		t.Fatal("mutating Orders() result leaked into the store")
	}
}
