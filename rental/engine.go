// Package rental implements the order lifecycle engine: the legal
// transitions over a rental's (order status, payment status) pair, the
// stock side effect tied to each transition, and the at-most-once
// notification dispatched after commit.
package rental

import (
	"context"
	"log/slog"

	"github.com/albt6x/rent-a-camera/models"
)

type Engine struct {
	store    Storage
	notifier Notifier
	log      *slog.Logger
}

func NewEngine(store Storage, notifier Notifier, log *slog.Logger) *Engine {
	return &Engine{store: store, notifier: notifier, log: log}
}

// Approve moves a rental under review to ACC. The stock check is
// all-or-nothing across line items: if any referenced item cannot cover
// the rental, nothing is decremented. Required units are aggregated per
// catalog item first, so a rental holding the same item twice (different
// durations) cannot slip past a stock of one.
func (e *Engine) Approve(ctx context.Context, rentalID string) (*models.Rental, error) {
	var out *models.Rental
	err := e.store.Transact(ctx, rentalID, func(tx Tx, r *models.Rental) error {
		if r.OrderStatus != models.OrderDitinjau {
			return &InvalidTransitionError{Op: "approve", OrderStatus: r.OrderStatus, PaymentStatus: r.PaymentStatus}
		}

		need := make(map[string]int, len(r.Items))
		for _, li := range r.Items {
			need[li.ItemID]++
		}
		checked := make(map[string]bool, len(need))
		for _, li := range r.Items {
			if checked[li.ItemID] {
				continue
			}
			checked[li.ItemID] = true
			stock, err := tx.GetItemStock(ctx, li.ItemID)
			if err != nil {
				return err
			}
			if stock < need[li.ItemID] {
				return &InsufficientStockError{ItemID: li.ItemID, ItemName: li.Item.Name}
			}
		}

		for _, li := range r.Items {
			if err := tx.AdjustItemStock(ctx, li.ItemID, -1); err != nil {
				return err
			}
		}

		r.OrderStatus = models.OrderACC
		if r.PaymentProof != "" {
			r.PaymentStatus = models.PaymentMenungguKonfirmasi
		} else {
			r.PaymentStatus = models.PaymentBelumBayar
		}
		out = r
		return tx.SaveRental(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(Notification{Kind: KindOrderApproved, Rental: out})
	return out, nil
}

// Reject refuses a rental under review or withdraws an approval that has
// not been picked up yet. Stock is restored only if the rental was
// previously ACC; a rejection straight from review never touched stock,
// so restoring would inflate it. Once the payment side reaches
// Pengambilan the gear is out (or, at Selesai, MarkReturned has already
// restored stock), so rejection is no longer legal.
func (e *Engine) Reject(ctx context.Context, rentalID, reason string) (*models.Rental, error) {
	var out *models.Rental
	err := e.store.Transact(ctx, rentalID, func(tx Tx, r *models.Rental) error {
		if r.OrderStatus != models.OrderDitinjau && r.OrderStatus != models.OrderACC {
			return &InvalidTransitionError{Op: "reject", OrderStatus: r.OrderStatus, PaymentStatus: r.PaymentStatus}
		}
		if r.PaymentStatus == models.PaymentPengambilan || r.PaymentStatus == models.PaymentSelesai {
			return &InvalidTransitionError{Op: "reject", OrderStatus: r.OrderStatus, PaymentStatus: r.PaymentStatus}
		}

		if r.OrderStatus == models.OrderACC {
			for _, li := range r.Items {
				if err := tx.AdjustItemStock(ctx, li.ItemID, +1); err != nil {
					return err
				}
			}
		}

		r.OrderStatus = models.OrderDitolak
		r.PaymentStatus = models.PaymentDibatalkan
		out = r
		return tx.SaveRental(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(Notification{Kind: KindOrderRejected, Rental: out, Reason: reason})
	return out, nil
}

// ConfirmPayment marks an approved rental ready for pickup. The payment
// side must still be before pickup (unpaid or awaiting confirmation);
// that keeps a repeated confirm from silently re-applying.
func (e *Engine) ConfirmPayment(ctx context.Context, rentalID string) (*models.Rental, error) {
	var out *models.Rental
	err := e.store.Transact(ctx, rentalID, func(tx Tx, r *models.Rental) error {
		if r.OrderStatus != models.OrderACC ||
			(r.PaymentStatus != models.PaymentBelumBayar && r.PaymentStatus != models.PaymentMenungguKonfirmasi) {
			return &InvalidTransitionError{Op: "confirm payment", OrderStatus: r.OrderStatus, PaymentStatus: r.PaymentStatus}
		}

		r.PaymentStatus = models.PaymentPengambilan
		out = r
		return tx.SaveRental(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(Notification{Kind: KindPaymentConfirmed, Rental: out})
	return out, nil
}

// MarkReturned completes a picked-up rental and restores one unit of
// stock per line item.
func (e *Engine) MarkReturned(ctx context.Context, rentalID string) (*models.Rental, error) {
	var out *models.Rental
	err := e.store.Transact(ctx, rentalID, func(tx Tx, r *models.Rental) error {
		if r.PaymentStatus != models.PaymentPengambilan {
			return &InvalidTransitionError{Op: "mark returned", OrderStatus: r.OrderStatus, PaymentStatus: r.PaymentStatus}
		}

		for _, li := range r.Items {
			if err := tx.AdjustItemStock(ctx, li.ItemID, +1); err != nil {
				return err
			}
		}

		r.PaymentStatus = models.PaymentSelesai
		out = r
		return tx.SaveRental(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(Notification{Kind: KindReservationCompleted, Rental: out})
	return out, nil
}

// dispatch runs strictly after commit. Delivery failure is observability
// only; the transition stays committed.
func (e *Engine) dispatch(n Notification) {
	n.To = n.Rental.Borrower.Email
	if n.To == "" {
		e.log.Warn("no borrower email, skipping notification",
			"kind", n.Kind, "rental", n.Rental.PublicID)
		return
	}
	if !e.notifier.Notify(n) {
		e.log.Error("notification not accepted",
			"kind", n.Kind, "rental", n.Rental.PublicID, "to", n.To)
	}
}
