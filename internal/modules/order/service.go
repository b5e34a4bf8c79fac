package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/inventory"
	"github.com/georgemunganga/marketplace-backend/internal/modules/payment"
	"github.com/georgemunganga/marketplace-backend/internal/modules/shipping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder prices the items from the catalog and persists a created order.
	PlaceOrder(ctx context.Context, customer identity.Principal, req PlaceOrderRequest) (*Order, error)

	// GetOrder returns an order to an admin, its owner, or a vendor with items
	// in it. Vendors see only their own line items.
	GetOrder(ctx context.Context, caller identity.Principal, id uuid.UUID) (*Order, error)

	// ListCustomerOrders returns a customer's orders to that customer or an admin.
	ListCustomerOrders(ctx context.Context, caller identity.Principal, customerID uuid.UUID) ([]*Order, error)

	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]*Order, error)

	// ListVendorOrders returns the vendor's projection of the orders they sell into.
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]*Order, error)

	// ConfirmOrder reserves stock for every line item and confirms the order
	// in one transaction, then issues the invoice.
	ConfirmOrder(ctx context.Context, id uuid.UUID) (*Order, error)

	MarkPaid(ctx context.Context, id uuid.UUID) (*Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*Order, error)

	// CancelOrder cancels a created order for its owner, or a created or
	// confirmed order for an admin, returning reserved stock.
	CancelOrder(ctx context.Context, caller identity.Principal, id uuid.UUID) (*Order, error)
}

// ProductFinder looks up catalog products regardless of visibility.
type ProductFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// AddressBook supplies a customer's saved shipping address.
type AddressBook interface {
	Get(ctx context.Context, userID uuid.UUID) (*shipping.Address, error)
}

// InvoiceIssuer generates the invoice for a confirmed order.
type InvoiceIssuer interface {
	IssueForOrder(ctx context.Context, o *Order) error
}

type service struct {
	repo      Repository
	products  ProductFinder
	stock     inventory.Service
	addresses AddressBook
	invoices  InvoiceIssuer
	publisher events.Publisher
	tx        database.Transactor
	now       func() time.Time
}

// Deps collects the collaborators of the order service.
type Deps struct {
	Repo      Repository
	Products  ProductFinder
	Stock     inventory.Service
	Addresses AddressBook
	Invoices  InvoiceIssuer
	Publisher events.Publisher
	Tx        database.Transactor
}

// NewService creates a new order service. Invoices and Publisher may be nil.
func NewService(d Deps) Service {
	return &service{
		repo:      d.Repo,
		products:  d.Products,
		stock:     d.Stock,
		addresses: d.Addresses,
		invoices:  d.Invoices,
		publisher: d.Publisher,
		tx:        d.Tx,
		now:       time.Now,
	}
}

func (s *service) PlaceOrder(ctx context.Context, customer identity.Principal, req PlaceOrderRequest) (*Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, apperr.Validation("No order items")
	}
	method, err := payment.Parse(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if req.ShippingPrice.IsNegative() {
		return nil, apperr.Validation("Shipping price cannot be negative",
			apperr.FieldError{Field: "shippingPrice", Message: "shippingPrice must be 0 or greater"})
	}

	// ── Build line items from current catalog prices ─────────────────────────
	items := make([]*LineItem, 0, len(req.OrderItems))
	itemsPrice := decimal.Zero
	for _, ri := range req.OrderItems {
		if ri.Product == uuid.Nil {
			return nil, apperr.Validation("Product is required for every order item")
		}
		if ri.Quantity < 1 {
			return nil, apperr.Validation("Quantity must be at least 1",
				apperr.FieldError{Field: "quantity", Message: "quantity must be at least 1 for product " + ri.Product.String()})
		}
		p, err := s.products.FindByID(ctx, ri.Product)
		if errors.Is(err, apperr.ErrNotFound) || (err == nil && !p.Visible()) {
			return nil, apperr.NotFound("Product with ID %s not found", ri.Product)
		}
		if err != nil {
			return nil, err
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(ri.Quantity))).Round(2)
		itemsPrice = itemsPrice.Add(lineTotal)
		items = append(items, &LineItem{
			ID:        uuid.New(),
			ProductID: p.ID,
			VendorID:  p.VendorID,
			Name:      p.Name,
			Image:     p.MainImage(),
			UnitPrice: p.Price,
			Quantity:  ri.Quantity,
			LineTotal: lineTotal,
		})
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	shippingPrice := req.ShippingPrice.Round(2)
	totalPrice := itemsPrice.Add(shippingPrice)
	if req.ItemsPrice != nil && !req.ItemsPrice.Round(2).Equal(itemsPrice) {
		return nil, apperr.Validation("Items price does not match current product prices",
			apperr.FieldError{Field: "itemsPrice", Message: "itemsPrice must be " + itemsPrice.StringFixed(2)})
	}
	if req.TotalPrice != nil && !req.TotalPrice.Round(2).Equal(totalPrice) {
		return nil, apperr.Validation("Total price does not match items and shipping",
			apperr.FieldError{Field: "totalPrice", Message: "totalPrice must be " + totalPrice.StringFixed(2)})
	}

	address, err := s.shippingAddress(ctx, customer.UserID, req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:              uuid.New(),
		OrderNumber:     generateOrderNumber(s.now()),
		CustomerID:      customer.UserID,
		Items:           items,
		ShippingAddress: address,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		PaymentMethod:   method,
		Status:          StatusCreated,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.repo.CreateOrder(ctx, o)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	slog.InfoContext(ctx, "order placed",
		slog.String("order_id", o.ID.String()),
		slog.String("customer_id", customer.UserID.String()),
		slog.String("total", totalPrice.StringFixed(2)))
	return o, nil
}

// shippingAddress uses the address sent with the order, falling back to the
// customer's saved one.
func (s *service) shippingAddress(ctx context.Context, userID uuid.UUID, sent *ShippingAddress) (ShippingAddress, error) {
	if sent != nil {
		return *sent, nil
	}
	saved, err := s.addresses.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return ShippingAddress{}, apperr.Validation("Shipping address is required",
			apperr.FieldError{Field: "shippingAddress", Message: "shippingAddress is required when no address is saved"})
	}
	if err != nil {
		return ShippingAddress{}, err
	}
	return ShippingAddress{
		FullName:     saved.FullName,
		Phone:        saved.Phone,
		AddressLine1: saved.AddressLine1,
		AddressLine2: saved.AddressLine2,
		Landmark:     saved.Landmark,
		City:         saved.City,
		State:        saved.State,
		PostalCode:   saved.PostalCode,
		Country:      saved.Country,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, caller identity.Principal, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case caller.IsAdmin(), o.CustomerID == caller.UserID:
		return o, nil
	case caller.Role == identity.RoleVendor && o.HasVendor(caller.UserID):
		return FilterByVendor([]*Order{o}, caller.UserID)[0], nil
	}
	return nil, apperr.AccessDenied("Access denied")
}

func (s *service) ListCustomerOrders(ctx context.Context, caller identity.Principal, customerID uuid.UUID) ([]*Order, error) {
	if !caller.IsAdmin() && caller.UserID != customerID {
		return nil, apperr.AccessDenied("Access denied")
	}
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func (s *service) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]*Order, error) {
	orders, err := s.repo.ListOrdersByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return FilterByVendor(orders, vendorID), nil
}

func (s *service) ConfirmOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o *Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if o, err = s.repo.GetOrderForUpdate(ctx, id); err != nil {
			return err
		}
		if err := o.advance(StatusConfirmed, s.now().UTC()); err != nil {
			return err
		}
		if err := s.stock.Reserve(ctx, o.Lines()); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order confirmed", slog.String("order_id", o.ID.String()))
	events.Emit(ctx, s.publisher, events.New(events.OrderConfirmed, o.ID.String(), o))

	if s.invoices != nil {
		if err := s.invoices.IssueForOrder(ctx, o); err != nil {
			slog.ErrorContext(ctx, "invoice generation failed",
				slog.String("order_id", o.ID.String()),
				slog.String("error", err.Error()))
		}
	}
	return o, nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.move(ctx, id, StatusPaid, events.OrderPaid)
}

func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.move(ctx, id, StatusDelivered, events.OrderDelivered)
}

// move applies a transition that touches nothing but the order row.
func (s *service) move(ctx context.Context, id uuid.UUID, to Status, t events.Type) (*Order, error) {
	var o *Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if o, err = s.repo.GetOrderForUpdate(ctx, id); err != nil {
			return err
		}
		if err := o.advance(to, s.now().UTC()); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order status changed",
		slog.String("order_id", o.ID.String()),
		slog.String("status", string(o.Status)))
	events.Emit(ctx, s.publisher, events.New(t, o.ID.String(), o))
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, caller identity.Principal, id uuid.UUID) (*Order, error) {
	var o *Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if o, err = s.repo.GetOrderForUpdate(ctx, id); err != nil {
			return err
		}
		if !caller.IsAdmin() {
			if o.CustomerID != caller.UserID {
				return apperr.AccessDenied("Access denied")
			}
			if o.Status != StatusCreated {
				return apperr.Conflict("Only orders awaiting confirmation can be cancelled")
			}
		}
		wasConfirmed := o.Status == StatusConfirmed
		if err := o.advance(StatusCancelled, s.now().UTC()); err != nil {
			return err
		}
		if wasConfirmed {
			if err := s.stock.Release(ctx, o.Lines()); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order cancelled",
		slog.String("order_id", o.ID.String()),
		slog.String("by", caller.UserID.String()))
	events.Emit(ctx, s.publisher, events.New(events.OrderCancelled, o.ID.String(), o))
	return o, nil
}

// FilterByVendor projects orders onto one vendor: each order keeps only that
// vendor's line items and orders left without items are dropped. The input
// is not modified.
func FilterByVendor(orders []*Order, vendorID uuid.UUID) []*Order {
	out := make([]*Order, 0, len(orders))
	for _, o := range orders {
		var items []*LineItem
		for _, item := range o.Items {
			if item.VendorID == vendorID {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		projected := *o
		projected.Items = items
		out = append(out, &projected)
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXXXXXX
func generateOrderNumber(now time.Time) string {
	date := now.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
