package basket

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptState marks a persisted blob that could not be decoded. Callers
// treat it as empty state.
var ErrCorruptState = errors.New("corrupt basket state")

// EncodeState serializes state into the persisted JSON blob. Nil slices are
// written as empty arrays.
func EncodeState(state State) ([]byte, error) {
	if state.Basket == nil {
		state.Basket = []BasketItem{}
	}
	orders := make([]Order, len(state.Orders))
	copy(orders, state.Orders)
	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []BasketItem{}
		}
	}
	state.Orders = orders
	return json.Marshal(state)
}

// DecodeState parses a persisted blob. An empty blob is empty state; anything
// unparseable, or a basket line with quantity below 1, yields ErrCorruptState.
func DecodeState(raw []byte) (State, error) {
	if len(raw) == 0 {
		return State{}, nil
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	for _, item := range state.Basket {
		if item.Quantity < 1 || item.Product.ID == "" {
			return State{}, fmt.Errorf("%w: invalid basket line for product %q", ErrCorruptState, item.Product.ID)
		}
	}
	return state, nil
}
