package rental

import (
	"errors"
	"fmt"

	"github.com/albt6x/rent-a-camera/models"
)

// ErrNotFound is returned when a rental id does not resolve.
var ErrNotFound = errors.New("rental not found")

// InvalidTransitionError reports an operation that is not legal from the
// rental's current status pair. No side effect has been applied.
type InvalidTransitionError struct {
	Op            string
	OrderStatus   models.OrderStatus
	PaymentStatus models.PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed from order status %q / payment status %q",
		e.Op, e.OrderStatus, e.PaymentStatus)
}

// InsufficientStockError reports the first line item whose catalog item
// cannot cover the rental. Nothing has been decremented.
type InsufficientStockError struct {
	ItemID   string
	ItemName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %q (%s)", e.ItemName, e.ItemID)
}
