package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/modules/inventory"
	"github.com/georgemunganga/marketplace-backend/internal/modules/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the single lifecycle state of an order.
type Status string

const (
	StatusCreated   Status = "created"
	StatusConfirmed Status = "confirmed"
	StatusPaid      Status = "paid"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ShippingAddress is the delivery address frozen onto the order.
type ShippingAddress struct {
	FullName     string `json:"fullName" validate:"required,min=3"`
	Phone        string `json:"phone" validate:"required,min=7,max=20"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode" validate:"required"`
	Country      string `json:"country,omitempty"`
}

// Value stores the address as JSONB.
func (a ShippingAddress) Value() (driver.Value, error) { return json.Marshal(a) }

// Scan reads the address from JSONB.
func (a *ShippingAddress) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return errors.New("shipping address: expected []byte")
	}
	return json.Unmarshal(b, a)
}

// LineItem is a frozen snapshot of a product at checkout time.
type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product"`
	VendorID  uuid.UUID       `json:"vendor"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CustomerSummary is the owning customer as shown on order views.
type CustomerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Order is a customer's checkout and its fulfilment state.
type Order struct {
	ID              uuid.UUID        `json:"id"`
	OrderNumber     string           `json:"orderNumber"`
	CustomerID      uuid.UUID        `json:"userId"`
	Customer        *CustomerSummary `json:"user,omitempty"`
	Items           []*LineItem      `json:"orderItems"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	ItemsPrice      decimal.Decimal  `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal  `json:"shippingPrice"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
	PaymentMethod   payment.Method   `json:"paymentMethod"`
	Status          Status           `json:"status"`
	ConfirmedAt     *time.Time       `json:"confirmedAt,omitempty"`
	PaidAt          *time.Time       `json:"paidAt,omitempty"`
	DeliveredAt     *time.Time       `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time       `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (o *Order) IsConfirmed() bool { return o.ConfirmedAt != nil }
func (o *Order) IsPaid() bool      { return o.PaidAt != nil }
func (o *Order) IsDelivered() bool { return o.DeliveredAt != nil }

// MarshalJSON adds the isConfirmed/isPaid/isDelivered flags clients read.
func (o *Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		*plain
		IsConfirmed bool `json:"isConfirmed"`
		IsPaid      bool `json:"isPaid"`
		IsDelivered bool `json:"isDelivered"`
	}{(*plain)(o), o.IsConfirmed(), o.IsPaid(), o.IsDelivered()})
}

// Lines is the stock each line item draws.
func (o *Order) Lines() []inventory.Line {
	lines := make([]inventory.Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, inventory.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// HasVendor reports whether any line item belongs to vendorID.
func (o *Order) HasVendor(vendorID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

// ItemRequest is one product and quantity in a checkout.
type ItemRequest struct {
	Product  uuid.UUID `json:"product"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderRequest is the checkout payload. Totals are recomputed from
// current prices; when the client sends them they must agree.
type PlaceOrderRequest struct {
	OrderItems      []ItemRequest    `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	ShippingPrice   decimal.Decimal  `json:"shippingPrice"`
	ItemsPrice      *decimal.Decimal `json:"itemsPrice"`
	TotalPrice      *decimal.Decimal `json:"totalPrice"`
	PaymentMethod   string           `json:"paymentMethod"`
}

// OrderIDRequest carries the order id in a body, as the confirm endpoint expects.
type OrderIDRequest struct {
	OrderID string `json:"orderId"`
}
