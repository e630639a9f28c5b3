package cart

import "time"

// Item is one line of a user's cart. Name and UnitPrice are snapshotted
// from the catalog when the line is created; checkout re-validates them.
type Item struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal is the line amount in cents.
func (i Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// State is the derived view of a cart. TotalItems and TotalAmount are
// recomputed from Items on every read, never stored.
type State struct {
	Items       []Item `json:"items"`
	TotalItems  int    `json:"total_items"`
	TotalAmount int64  `json:"total_amount"`
}

func stateOf(items []Item) State {
	st := State{Items: items}
	if st.Items == nil {
		st.Items = []Item{}
	}
	for _, i := range items {
		st.TotalItems += i.Quantity
		st.TotalAmount += i.Subtotal()
	}
	return st
}
