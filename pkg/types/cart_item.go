package types

// CartItem is one product line in the cart, keyed by product id.
type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// CloneCartItems returns an independent copy of items. A nil input yields an
// empty, non-nil slice so callers always serialise "[]".
func CloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
