package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/rental"
)

// LifecycleStore adapts GORM to the lifecycle engine's Storage port.
// Transact takes FOR UPDATE locks on the rental row and, through the tx
// view, on each item row before reading its stock, so concurrent
// transitions against the same rental or the same catalog item serialize
// on the database.
type LifecycleStore struct{ DB *gorm.DB }

func NewLifecycleStore(db *gorm.DB) *LifecycleStore { return &LifecycleStore{DB: db} }

var _ rental.Storage = (*LifecycleStore)(nil)

func (s *LifecycleStore) LoadRental(ctx context.Context, id string) (*models.Rental, error) {
	var rt models.Rental
	err := s.DB.WithContext(ctx).
		Preload("Borrower").
		Preload("Items").
		Preload("Items.Item").
		First(&rt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rental.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *LifecycleStore) Transact(ctx context.Context, rentalID string, fn func(tx rental.Tx, r *models.Rental) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the rental row first; associations loaded after, unlocked
		var rt models.Rental
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rt, "id = ?", rentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rental.ErrNotFound
			}
			return err
		}
		if err := tx.Preload("Item").
			Where("rental_id = ?", rt.ID).
			Find(&rt.Items).Error; err != nil {
			return err
		}
		if err := tx.First(&rt.Borrower, "id = ?", rt.UserID).Error; err != nil {
			return err
		}
		return fn(&txView{tx: tx}, &rt)
	})
}

type txView struct{ tx *gorm.DB }

func (v *txView) GetItemStock(ctx context.Context, itemID string) (int, error) {
	var it models.Item
	if err := v.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&it, "id = ?", itemID).Error; err != nil {
		return 0, err
	}
	return it.Stock, nil
}

func (v *txView) AdjustItemStock(ctx context.Context, itemID string, delta int) error {
	res := v.tx.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemID).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (v *txView) SaveRental(ctx context.Context, r *models.Rental) error {
	return v.tx.WithContext(ctx).Model(&models.Rental{}).
		Where("id = ?", r.ID).
		Updates(map[string]interface{}{
			"order_status":   r.OrderStatus,
			"payment_status": r.PaymentStatus,
		}).Error
}
