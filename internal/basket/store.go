package basket

// Store holds one profile's basket and order history. It is not safe for
// concurrent use; Service serializes access per profile.
//
// No operation fails: absent products or orders are silent no-ops and queries
// on missing keys return zero values.
type Store struct {
	basket []BasketItem
	orders []Order
}

// NewStore builds a store seeded with a copy of state.
func NewStore(state State) *Store {
	return &Store{
		basket: copyItems(state.Basket),
		orders: copyOrders(state.Orders),
	}
}

// AddToBasket increments the quantity of product, appending it with quantity 1
// when it is not in the basket yet.
func (s *Store) AddToBasket(product ProductRef) {
	if i := s.indexOf(product.ID); i >= 0 {
		s.basket[i].Quantity++
		return
	}
	s.basket = append(s.basket, BasketItem{Product: product, Quantity: 1})
}

// RemoveFromBasket decrements the quantity of productID and drops the line at zero.
func (s *Store) RemoveFromBasket(productID string) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if s.basket[i].Quantity > 1 {
		s.basket[i].Quantity--
		return
	}
	s.basket = append(s.basket[:i], s.basket[i+1:]...)
}

// RemoveItemCompletely drops the line for productID regardless of quantity.
func (s *Store) RemoveItemCompletely(productID string) {
	if i := s.indexOf(productID); i >= 0 {
		s.basket = append(s.basket[:i], s.basket[i+1:]...)
	}
}

func (s *Store) ClearBasket() {
	s.basket = nil
}

// TotalPrice sums price × quantity; a missing price counts as 0.
func (s *Store) TotalPrice() float64 {
	var total float64
	for _, item := range s.basket {
		if item.Product.Price == nil {
			continue
		}
		total += *item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the quantity for productID, or 0 when absent.
func (s *Store) ItemCount(productID string) int {
	if i := s.indexOf(productID); i >= 0 {
		return s.basket[i].Quantity
	}
	return 0
}

// Items returns a copy of the basket lines in insertion order.
func (s *Store) Items() []BasketItem {
	return copyItems(s.basket)
}

// AddOrder prepends order unless an existing order shares its SessionID or ID.
// It reports whether the order was added.
func (s *Store) AddOrder(order Order) bool {
	for _, existing := range s.orders {
		if existing.SessionID == order.SessionID || existing.ID == order.ID {
			return false
		}
	}
	order.Items = copyItems(order.Items)
	s.orders = append([]Order{order}, s.orders...)
	return true
}

// Orders returns a copy of the order history, newest first.
func (s *Store) Orders() []Order {
	return copyOrders(s.orders)
}

// CleanupDuplicateOrders keeps the first order per SessionID, preserving
// relative order, and returns how many entries were removed.
func (s *Store) CleanupDuplicateOrders() int {
	seen := make(map[string]struct{}, len(s.orders))
	kept := s.orders[:0]
	for _, order := range s.orders {
		if _, dup := seen[order.SessionID]; dup {
			continue
		}
		seen[order.SessionID] = struct{}{}
		kept = append(kept, order)
	}
	removed := len(s.orders) - len(kept)
	s.orders = kept
	return removed
}

func (s *Store) ClearAllOrders() {
	s.orders = nil
}

// State returns a deep copy suitable for persisting.
func (s *Store) State() State {
	return State{
		Basket: copyItems(s.basket),
		Orders: copyOrders(s.orders),
	}
}

func (s *Store) indexOf(productID string) int {
	for i, item := range s.basket {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
