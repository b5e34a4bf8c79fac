package order

import (
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
)

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusCreated:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPaid, StatusDelivered, StatusCancelled},
	StatusPaid:      {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether the state machine permits from → to.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// advance moves o to the next status and stamps its timestamps. Delivering a
// confirmed but unpaid order is only allowed when the payment method settles
// on delivery, and it stamps the payment too.
func (o *Order) advance(to Status, now time.Time) error {
	if err := o.checkTransition(to); err != nil {
		return err
	}
	switch to {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusPaid:
		o.PaidAt = &now
	case StatusDelivered:
		if o.PaidAt == nil {
			o.PaidAt = &now
		}
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

func (o *Order) checkTransition(to Status) error {
	if o.Status == StatusCancelled {
		return apperr.Conflict("Order has been cancelled")
	}
	switch to {
	case StatusConfirmed:
		if o.Status != StatusCreated {
			return apperr.Conflict("Order is already confirmed")
		}
	case StatusPaid:
		if o.Status == StatusCreated {
			return apperr.Conflict("Order must be confirmed before it can be paid")
		}
		if o.IsPaid() {
			return apperr.Conflict("Order is already paid")
		}
	case StatusDelivered:
		if o.Status == StatusCreated {
			return apperr.Conflict("Order must be confirmed before it can be delivered")
		}
		if o.IsDelivered() {
			return apperr.Conflict("Order is already delivered")
		}
		if o.Status == StatusConfirmed && !o.PaymentMethod.SettlesOnDelivery() {
			return apperr.Conflict("Order must be paid before it can be delivered")
		}
	}
	if !CanTransition(o.Status, to) {
		return apperr.Conflict("Cannot move order from %s to %s", o.Status, to)
	}
	return nil
}
