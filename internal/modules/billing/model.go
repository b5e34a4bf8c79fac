package billing

import (
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/georgemunganga/marketplace-backend/internal/modules/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the billed party as it stood when the invoice was issued.
type Customer struct {
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
}

// LineItem represents a single line on an invoice.
type LineItem struct {
	ProductID uuid.UUID       `json:"product"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// OrderSummary is the current state of the invoiced order, shown on listings.
type OrderSummary struct {
	OrderNumber string          `json:"orderNumber"`
	Status      order.Status    `json:"status"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CustomerID  uuid.UUID       `json:"userId"`
}

// Invoice is an immutable snapshot of a confirmed order.
type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"orderId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Customer      Customer        `json:"customer"`
	Items         []LineItem      `json:"orderItems"`
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod payment.Method  `json:"paymentMethod"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	IsDelivered   bool            `json:"isDelivered"`
	DeliveredAt   *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`

	Order *OrderSummary `json:"order,omitempty"`
}

// GenerateRequest is the payload for generating an order's invoice.
type GenerateRequest struct {
	OrderID string `json:"orderId"`
}

// snapshot freezes o into a new invoice without a number.
func snapshot(o *order.Order, now time.Time) *Invoice {
	inv := &Invoice{
		ID:      uuid.New(),
		OrderID: o.ID,
		Customer: Customer{
			Phone:           o.ShippingAddress.Phone,
			ShippingAddress: o.ShippingAddress,
		},
		Items:         make([]LineItem, 0, len(o.Items)),
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: o.PaymentMethod,
		IsPaid:        o.IsPaid(),
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered(),
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     now,
	}
	if o.Customer != nil {
		inv.Customer.Name = o.Customer.Name
		inv.Customer.Email = o.Customer.Email
	}
	for _, item := range o.Items {
		inv.Items = append(inv.Items, LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			Total:     item.LineTotal,
		})
	}
	return inv
}
