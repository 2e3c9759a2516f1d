package types

import "github.com/angelmondragon/storefront/pkg/enums"

// OrderDateLayout matches the ISO-8601 form browsers emit: UTC, millisecond precision.
const OrderDateLayout = "2006-01-02T15:04:05.000Z"

// Order is an immutable snapshot of a checked-out cart.
type Order struct {
	ID            string              `json:"id"`
	Items         []CartItem          `json:"items"`
	Total         float64             `json:"total"`
	Date          string              `json:"date"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Status        enums.OrderStatus   `json:"status"`
	UserEmail     string              `json:"userEmail,omitempty"`
}

// Clone deep-copies the order so callers cannot alias stored items.
func (o Order) Clone() Order {
	o.Items = CloneCartItems(o.Items)
	return o
}
