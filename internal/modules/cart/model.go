package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSummary is the live product shown next to a cart line.
type ProductSummary struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Image string          `json:"image,omitempty"`
}

type Item struct {
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
	AddedAt  time.Time      `json:"addedAt"`
}

// Cart is a user's basket. It exists implicitly; an empty cart has no items.
type Cart struct {
	UserID    uuid.UUID       `json:"userId"`
	Items     []Item          `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func newCart(userID uuid.UUID, items []Item) *Cart {
	c := &Cart{UserID: userID, Items: items, Subtotal: decimal.Zero}
	if c.Items == nil {
		c.Items = []Item{}
	}
	for _, item := range c.Items {
		c.ItemCount += item.Quantity
		c.Subtotal = c.Subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.Subtotal = c.Subtotal.Round(2)
	return c
}

const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
)

// UpdateRequest steps a line's quantity by one.
type UpdateRequest struct {
	Action string `json:"action" validate:"required,oneof=increment decrement"`
}
