package rental_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/rental"
)

// fakeStore is an in-memory Storage with real transaction semantics:
// mutations made through the Tx view are staged and applied only when the
// callback returns nil.
type fakeStore struct {
	rentals  map[string]*models.Rental
	stocks   map[string]int
	failSave error
}

type fakeTx struct {
	stocks map[string]int
	saved  *models.Rental
	fail   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rentals: map[string]*models.Rental{},
		stocks:  map[string]int{},
	}
}

func (s *fakeStore) LoadRental(_ context.Context, id string) (*models.Rental, error) {
	r, ok := s.rentals[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) Transact(_ context.Context, id string, fn func(tx rental.Tx, r *models.Rental) error) error {
	r, ok := s.rentals[id]
	if !ok {
		return rental.ErrNotFound
	}
	cp := *r
	cp.Items = append([]models.RentalItem(nil), r.Items...)

	tx := &fakeTx{stocks: map[string]int{}, fail: s.failSave}
	for k, v := range s.stocks {
		tx.stocks[k] = v
	}
	if err := fn(tx, &cp); err != nil {
		return err
	}
	s.stocks = tx.stocks
	if tx.saved != nil {
		s.rentals[id] = tx.saved
	}
	return nil
}

func (t *fakeTx) GetItemStock(_ context.Context, itemID string) (int, error) {
	return t.stocks[itemID], nil
}

func (t *fakeTx) AdjustItemStock(_ context.Context, itemID string, delta int) error {
	t.stocks[itemID] += delta
	return nil
}

func (t *fakeTx) SaveRental(_ context.Context, r *models.Rental) error {
	if t.fail != nil {
		return t.fail
	}
	t.saved = r
	return nil
}

type fakeNotifier struct {
	sent   []rental.Notification
	refuse bool
}

func (n *fakeNotifier) Notify(note rental.Notification) bool {
	if n.refuse {
		return false
	}
	n.sent = append(n.sent, note)
	return true
}

func newEngine(store *fakeStore, notifier *fakeNotifier) *rental.Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return rental.NewEngine(store, notifier, log)
}

func seedRental(store *fakeStore, itemStocks map[string]int, itemIDs ...string) *models.Rental {
	r := &models.Rental{
		ID:            uuid.NewString(),
		PublicID:      models.NewPublicID(),
		UserID:        uuid.NewString(),
		Borrower:      models.User{Email: "penyewa@example.com", Username: "budi"},
		PickupDate:    time.Now().Add(48 * time.Hour),
		TotalPrice:    decimal.NewFromInt(150000),
		OrderStatus:   models.OrderDitinjau,
		PaymentStatus: models.PaymentDitinjau,
	}
	for _, id := range itemIDs {
		r.Items = append(r.Items, models.RentalItem{
			ID:              uuid.NewString(),
			RentalID:        r.ID,
			ItemID:          id,
			Item:            models.Item{ID: id, Name: "item-" + id[:8]},
			DurationHours:   24,
			PriceAtCheckout: decimal.NewFromInt(75000),
		})
	}
	for id, stock := range itemStocks {
		store.stocks[id] = stock
	}
	store.rentals[r.ID] = r
	return r
}

func TestApprove_DecrementsStockAndSetsStatuses(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 5}, itemA)

	got, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderACC, got.OrderStatus)
	assert.Equal(t, models.PaymentBelumBayar, got.PaymentStatus)
	assert.Equal(t, 4, store.stocks[itemA])

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, rental.KindOrderApproved, notifier.sent[0].Kind)
	assert.Equal(t, "penyewa@example.com", notifier.sent[0].To)
}

func TestApprove_WithProofAwaitsConfirmation(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 1}, itemA)
	r.PaymentProof = "bf31a9c2.jpg"

	got, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMenungguKonfirmasi, got.PaymentStatus)
}

func TestApprove_InsufficientStockIsAllOrNothing(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	itemB := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 2, itemB: 0}, itemA, itemB)

	_, err := eng.Approve(context.Background(), r.ID)

	var stockErr *rental.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, itemB, stockErr.ItemID)

	// no partial decrement, no status change, no notification
	assert.Equal(t, 2, store.stocks[itemA])
	assert.Equal(t, 0, store.stocks[itemB])
	assert.Equal(t, models.OrderDitinjau, store.rentals[r.ID].OrderStatus)
	assert.Empty(t, notifier.sent)
}

func TestApprove_SameItemTwiceNeedsTwoUnits(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 1}, itemA, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	var stockErr *rental.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, store.stocks[itemA])

	store.stocks[itemA] = 2
	_, err = eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.stocks[itemA])
}

func TestApprove_TwiceIsRefusedWithoutSecondDecrement(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 5}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)

	_, err = eng.Approve(context.Background(), r.ID)
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, models.OrderACC, trErr.OrderStatus)
	assert.Equal(t, 4, store.stocks[itemA])
}

func TestReject_AfterApprovalRestoresStock(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 5}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, store.stocks[itemA])

	got, err := eng.Reject(context.Background(), r.ID, "barang rusak")
	require.NoError(t, err)

	assert.Equal(t, models.OrderDitolak, got.OrderStatus)
	assert.Equal(t, models.PaymentDibatalkan, got.PaymentStatus)
	assert.Equal(t, 5, store.stocks[itemA], "decrement then increment must cancel exactly")

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, rental.KindOrderRejected, notifier.sent[1].Kind)
	assert.Equal(t, "barang rusak", notifier.sent[1].Reason)
}

func TestReject_NeverApprovedLeavesStockAlone(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 3}, itemA)

	got, err := eng.Reject(context.Background(), r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderDitolak, got.OrderStatus)
	assert.Equal(t, 3, store.stocks[itemA], "rejecting an unapproved order must not inflate stock")
}

func TestReject_AlreadyRejectedIsInvalid(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 3}, itemA)

	_, err := eng.Reject(context.Background(), r.ID, "")
	require.NoError(t, err)

	_, err = eng.Reject(context.Background(), r.ID, "")
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, 3, store.stocks[itemA])
}

func TestReject_AfterReturnDoesNotRefundAgain(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 2}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	_, err = eng.ConfirmPayment(context.Background(), r.ID)
	require.NoError(t, err)
	_, err = eng.MarkReturned(context.Background(), r.ID)
	require.NoError(t, err)
	require.Equal(t, 2, store.stocks[itemA], "return restores the approval decrement")

	_, err = eng.Reject(context.Background(), r.ID, "")
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, models.PaymentSelesai, trErr.PaymentStatus)

	assert.Equal(t, 2, store.stocks[itemA], "a finished rental must never be refunded twice")
	assert.Equal(t, models.PaymentSelesai, store.rentals[r.ID].PaymentStatus)
}

func TestReject_AfterPickupIsInvalid(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 1}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	_, err = eng.ConfirmPayment(context.Background(), r.ID)
	require.NoError(t, err)

	// the gear is out; only MarkReturned may restore stock
	_, err = eng.Reject(context.Background(), r.ID, "")
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, 0, store.stocks[itemA])
}

func TestConfirmPayment_OnceThenInvalid(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 1}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)

	got, err := eng.ConfirmPayment(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPengambilan, got.PaymentStatus)

	_, err = eng.ConfirmPayment(context.Background(), r.ID)
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, models.PaymentPengambilan, store.rentals[r.ID].PaymentStatus)
	assert.Equal(t, 0, store.stocks[itemA], "repeat confirm must not touch stock")
}

func TestConfirmPayment_BeforeApprovalIsInvalid(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 1}, itemA)

	_, err := eng.ConfirmPayment(context.Background(), r.ID)
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
}

func TestMarkReturned_RestoresStockAndCompletes(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 2}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	_, err = eng.ConfirmPayment(context.Background(), r.ID)
	require.NoError(t, err)

	got, err := eng.MarkReturned(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSelesai, got.PaymentStatus)
	assert.Equal(t, 2, store.stocks[itemA])

	assert.Equal(t, rental.KindReservationCompleted, notifier.sent[len(notifier.sent)-1].Kind)

	// completing twice would refund stock twice
	_, err = eng.MarkReturned(context.Background(), r.ID)
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, 2, store.stocks[itemA])
}

func TestMarkReturned_BeforePickupIsInvalid(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 2}, itemA)

	_, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)

	_, err = eng.MarkReturned(context.Background(), r.ID)
	var trErr *rental.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, 1, store.stocks[itemA], "invalid return must leave stock unchanged")
}

func TestApprove_StorageFailureRollsBackEverything(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 5}, itemA)
	store.failSave = errors.New("connection reset")

	_, err := eng.Approve(context.Background(), r.ID)
	require.Error(t, err)

	assert.Equal(t, 5, store.stocks[itemA])
	assert.Equal(t, models.OrderDitinjau, store.rentals[r.ID].OrderStatus)
	assert.Empty(t, notifier.sent)
}

func TestUnknownRentalIsNotFound(t *testing.T) {
	store := newFakeStore()
	eng := newEngine(store, &fakeNotifier{})

	_, err := eng.Approve(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, rental.ErrNotFound)

	_, err = eng.MarkReturned(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, rental.ErrNotFound)
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{refuse: true}
	eng := newEngine(store, notifier)

	itemA := uuid.NewString()
	r := seedRental(store, map[string]int{itemA: 1}, itemA)

	got, err := eng.Approve(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderACC, got.OrderStatus)
	assert.Equal(t, 0, store.stocks[itemA])
	assert.Equal(t, models.OrderACC, store.rentals[r.ID].OrderStatus)
}
