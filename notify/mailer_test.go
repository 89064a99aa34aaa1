package notify_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/notify"
	"github.com/albt6x/rent-a-camera/rental"
)

func sampleRental() *models.Rental {
	return &models.Rental{
		PublicID:      "RK-A1B2C3D4",
		Borrower:      models.User{Username: "budi", Email: "budi@example.com"},
		PickupDate:    time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
		OrderStatus:   models.OrderACC,
		PaymentStatus: models.PaymentBelumBayar,
		Items: []models.RentalItem{
			{Item: models.Item{Name: "Sony A7 III"}, PriceAtCheckout: decimal.NewFromInt(250000)},
		},
	}
}

func TestBuildMessage_Approved(t *testing.T) {
	subject, body := notify.BuildMessage(rental.Notification{
		Kind:   rental.KindOrderApproved,
		Rental: sampleRental(),
	})

	assert.Contains(t, subject, "RK-A1B2C3D4")
	assert.Contains(t, subject, "Disetujui")
	assert.Contains(t, body, "Halo budi,")
	assert.Contains(t, body, "Status Pembayaran: Belum Bayar")
	assert.Contains(t, body, "Sony A7 III")
	assert.Contains(t, body, "250000")
}

func TestBuildMessage_RejectedCarriesReason(t *testing.T) {
	subject, body := notify.BuildMessage(rental.Notification{
		Kind:   rental.KindOrderRejected,
		Rental: sampleRental(),
		Reason: "stok tidak tersedia",
	})

	assert.Contains(t, subject, "Ditolak")
	assert.Contains(t, body, "Alasan: stok tidak tersedia")
}

func TestNotify_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := notify.NewMailer(notify.Config{QueueSize: 1}, log)

	n := rental.Notification{Kind: rental.KindOrderApproved, Rental: sampleRental()}
	assert.True(t, m.Notify(n), "first enqueue fits the buffer")
	assert.False(t, m.Notify(n), "second enqueue must drop, not block")
}
