package rental

import (
	"context"

	"github.com/albt6x/rent-a-camera/models"
)

// Storage is the engine's persistence collaborator. Implementations must
// serialize concurrent transitions on the same rental: Transact loads the
// rental (with borrower and line items) under a row lock held for the
// whole transaction, and the item rows touched through Tx are locked the
// same way, so the stock check and the adjustment cannot be split by a
// concurrent transition.
type Storage interface {
	// LoadRental returns the rental with borrower and line items, or
	// ErrNotFound.
	LoadRental(ctx context.Context, id string) (*models.Rental, error)

	// Transact runs fn against a transactional view. The rental passed to
	// fn is locked for the duration; every mutation made through tx and
	// the final SaveRental commit or roll back as one unit. A domain
	// error returned by fn aborts the transaction and is returned as is.
	Transact(ctx context.Context, rentalID string, fn func(tx Tx, r *models.Rental) error) error
}

// Tx is the transactional view handed to Transact callbacks.
type Tx interface {
	GetItemStock(ctx context.Context, itemID string) (int, error)
	AdjustItemStock(ctx context.Context, itemID string, delta int) error
	SaveRental(ctx context.Context, r *models.Rental) error
}

// Kind names the notification sent for each committed transition.
type Kind string

const (
	KindOrderApproved        Kind = "order_approved"
	KindOrderRejected        Kind = "order_rejected"
	KindPaymentConfirmed     Kind = "payment_confirmed"
	KindReservationCompleted Kind = "reservation_completed"
)

// Notification is a snapshot handed to the Notifier after a transition
// has committed.
type Notification struct {
	Kind   Kind
	To     string
	Rental *models.Rental
	Reason string // optional, set for rejections
}

// Notifier delivers best-effort. Notify reports whether the notification
// was accepted for delivery; it never blocks on the actual send and never
// fails the transition.
type Notifier interface {
	Notify(n Notification) bool
}
