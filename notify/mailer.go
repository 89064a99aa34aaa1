// Package notify delivers borrower emails for committed lifecycle
// transitions. Delivery is fire-and-forget: Notify only enqueues, a
// single worker drains the queue, and failures are logged, never
// propagated back into the transition.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/albt6x/rent-a-camera/rental"
)

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	QueueSize int
}

type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
	queue  chan rental.Notification
	log    *slog.Logger
}

var _ rental.Notifier = (*Mailer)(nil)

func NewMailer(cfg Config, log *slog.Logger) *Mailer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		queue:  make(chan rental.Notification, cfg.QueueSize),
		log:    log,
	}
}

// Notify enqueues without blocking. A full queue drops the notification;
// the caller logs that, the transition stays committed either way.
func (m *Mailer) Notify(n rental.Notification) bool {
	select {
	case m.queue <- n:
		return true
	default:
		return false
	}
}

// Start drains the queue until ctx is cancelled. Run it on its own
// goroutine from main.
func (m *Mailer) Start(ctx context.Context) {
	m.log.Info("mailer worker started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info("mailer worker stopped")
			return
		case n := <-m.queue:
			if err := m.send(n); err != nil {
				m.log.Error("send mail failed",
					"kind", n.Kind, "rental", n.Rental.PublicID, "to", n.To, "err", err)
			}
		}
	}
}

func (m *Mailer) send(n rental.Notification) error {
	subject, body := BuildMessage(n)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", n.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// BuildMessage renders the plain-text subject and body for a
// notification kind.
func BuildMessage(n rental.Notification) (subject, body string) {
	r := n.Rental
	name := r.Borrower.Username
	if name == "" {
		name = "Pelanggan"
	}

	lines := []string{fmt.Sprintf("Halo %s,", name), ""}

	switch n.Kind {
	case rental.KindOrderApproved:
		subject = fmt.Sprintf("[Rent-a-Camera] Pesanan %s Telah Disetujui", r.PublicID)
		lines = append(lines,
			fmt.Sprintf("Pesanan Anda (Order ID: %s) telah disetujui oleh admin.", r.PublicID),
			fmt.Sprintf("Tanggal Pengambilan: %s", r.PickupDate.Format("2006-01-02 15:04")),
			fmt.Sprintf("Status Pesanan: %s", r.OrderStatus),
			fmt.Sprintf("Status Pembayaran: %s", r.PaymentStatus),
			"",
			"Detail item:")
		for _, li := range r.Items {
			lines = append(lines, fmt.Sprintf("- %s | Harga saat checkout: %s", li.Item.Name, li.PriceAtCheckout))
		}
		lines = append(lines, "", "Silakan cek dashboard akun Anda untuk informasi lebih lanjut.")

	case rental.KindOrderRejected:
		subject = fmt.Sprintf("[Rent-a-Camera] Pesanan %s Ditolak", r.PublicID)
		lines = append(lines, fmt.Sprintf("Mohon maaf, pesanan Anda (Order ID: %s) telah ditolak.", r.PublicID))
		if n.Reason != "" {
			lines = append(lines, fmt.Sprintf("Alasan: %s", n.Reason))
		}

	case rental.KindPaymentConfirmed:
		subject = fmt.Sprintf("[Rent-a-Camera] Pembayaran Pesanan %s Dikonfirmasi", r.PublicID)
		lines = append(lines,
			fmt.Sprintf("Pembayaran untuk pesanan %s telah dikonfirmasi.", r.PublicID),
			fmt.Sprintf("Barang siap diambil pada: %s", r.PickupDate.Format("2006-01-02 15:04")))

	case rental.KindReservationCompleted:
		subject = fmt.Sprintf("[Rent-a-Camera] Pesanan %s Selesai", r.PublicID)
		lines = append(lines,
			fmt.Sprintf("Pesanan %s telah selesai. Terima kasih sudah menyewa di Rent-a-Camera!", r.PublicID))
	}

	lines = append(lines, "", "Terima kasih,", "Rent-a-Camera Team")
	return subject, strings.Join(lines, "\n")
}
