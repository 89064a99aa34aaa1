package db

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/models"
)

// ErrNotPayable: payment proof can only be attached to an approved,
// still-unpaid rental.
var ErrNotPayable = errors.New("rental cannot be paid right now")

// CreateRental persists the rental and its line items as one unit. The
// caller has already frozen total_price and each price_at_checkout.
func (r *Repo) CreateRental(ctx context.Context, rt *models.Rental) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := rt.Items
		rt.Items = nil
		if err := tx.Create(rt).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].RentalID = rt.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		rt.Items = items
		return nil
	})
}

func (r *Repo) FindRentalByID(ctx context.Context, id string) (*models.Rental, error) {
	var rt models.Rental
	err := r.DB.WithContext(ctx).
		Preload("Borrower").
		Preload("Items").
		Preload("Items.Item").
		First(&rt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

type RentalsQuery struct {
	// Status filters order_status, except "Selesai" which filters
	// payment_status (finished orders keep order_status = ACC).
	Status string
	UserID string
	Page   int
	Size   int
}

type PagedRentals struct {
	Total   int64           `json:"total"`
	Rentals []models.Rental `json:"rentals"`
}

func (r *Repo) ListRentals(ctx context.Context, q RentalsQuery) (*PagedRentals, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 10
	}

	tx := r.DB.WithContext(ctx).Model(&models.Rental{})
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		if q.Status == string(models.PaymentSelesai) {
			tx = tx.Where("payment_status = ?", models.PaymentSelesai)
		} else {
			tx = tx.Where("order_status = ?", q.Status)
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var rentals []models.Rental
	if err := tx.
		Preload("Borrower").
		Preload("Items").
		Preload("Items.Item").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return &PagedRentals{Total: total, Rentals: rentals}, nil
}

// AttachPaymentProof stores the uploaded proof reference and moves the
// rental to awaiting confirmation. Guarded in SQL so a stale client
// cannot pay a rental that is not (ACC, Belum Bayar).
func (r *Repo) AttachPaymentProof(ctx context.Context, rentalID, userID, filename string) error {
	res := r.DB.WithContext(ctx).Model(&models.Rental{}).
		Where("id = ? AND user_id = ? AND order_status = ? AND payment_status = ?",
			rentalID, userID, models.OrderACC, models.PaymentBelumBayar).
		Updates(map[string]interface{}{
			"payment_proof":  filename,
			"payment_status": models.PaymentMenungguKonfirmasi,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPayable
	}
	return nil
}

// Staff reporting

type DailyReport struct {
	PickupsToday   int64           `json:"pickupsToday"`
	CompletedCount int64           `json:"completedCount"`
	PendingCount   int64           `json:"pendingCount"`
	UpcomingWeek   int64           `json:"upcomingWeek"`
	IncomeToday    decimal.Decimal `json:"incomeToday"`
	IncomeMonth    decimal.Decimal `json:"incomeMonth"`
}

func (r *Repo) BuildDailyReport(ctx context.Context, now time.Time) (*DailyReport, error) {
	day := now.UTC().Truncate(24 * time.Hour)
	nextDay := day.Add(24 * time.Hour)
	weekEnd := day.Add(8 * 24 * time.Hour)
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	rep := &DailyReport{}
	m := r.DB.WithContext(ctx).Model(&models.Rental{})

	if err := m.Session(&gorm.Session{}).
		Where("pickup_date >= ? AND pickup_date < ?", day, nextDay).
		Count(&rep.PickupsToday).Error; err != nil {
		return nil, err
	}
	if err := m.Session(&gorm.Session{}).
		Where("payment_status = ?", models.PaymentSelesai).
		Count(&rep.CompletedCount).Error; err != nil {
		return nil, err
	}
	if err := m.Session(&gorm.Session{}).
		Where("order_status = ?", models.OrderDitinjau).
		Count(&rep.PendingCount).Error; err != nil {
		return nil, err
	}
	if err := m.Session(&gorm.Session{}).
		Where("pickup_date >= ? AND pickup_date < ?", day, weekEnd).
		Count(&rep.UpcomingWeek).Error; err != nil {
		return nil, err
	}

	var sum struct{ Total decimal.Decimal }
	if err := m.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("pickup_date >= ? AND pickup_date < ?", day, nextDay).
		Scan(&sum).Error; err != nil {
		return nil, err
	}
	rep.IncomeToday = sum.Total

	if err := m.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("pickup_date >= ? AND pickup_date < ?", monthStart, nextMonth).
		Scan(&sum).Error; err != nil {
		return nil, err
	}
	rep.IncomeMonth = sum.Total

	return rep, nil
}

// ListRentalsByPickupRange feeds the monthly CSV export, pickup date
// ascending.
func (r *Repo) ListRentalsByPickupRange(ctx context.Context, from, to time.Time) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.DB.WithContext(ctx).
		Preload("Borrower").
		Where("pickup_date >= ? AND pickup_date < ?", from, to).
		Order("pickup_date ASC").
		Find(&rentals).Error
	return rentals, err
}

func (r *Repo) RecentRentals(ctx context.Context, limit int) ([]models.Rental, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}
	var rentals []models.Rental
	err := r.DB.WithContext(ctx).
		Preload("Borrower").
		Order("created_at DESC").
		Limit(limit).
		Find(&rentals).Error
	return rentals, err
}
