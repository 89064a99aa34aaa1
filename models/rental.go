package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const RentalTable = "rk_rentals"
const RentalItemTable = "rk_rental_items"

// OrderStatus is the approval-workflow state of a rental.
type OrderStatus string

const (
	OrderDitinjau OrderStatus = "Ditinjau" // under review
	OrderACC      OrderStatus = "ACC"      // approved
	OrderDitolak  OrderStatus = "Ditolak"  // rejected
)

// PaymentStatus is the payment/fulfillment state, only partially
// independent of OrderStatus: which values are reachable depends on the
// order side (see rental.Engine).
type PaymentStatus string

const (
	PaymentDitinjau           PaymentStatus = "Ditinjau"
	PaymentBelumBayar         PaymentStatus = "Belum Bayar"
	PaymentMenungguKonfirmasi PaymentStatus = "Menunggu Konfirmasi"
	PaymentPengambilan        PaymentStatus = "Pengambilan"
	PaymentSelesai            PaymentStatus = "Selesai"
	PaymentDibatalkan         PaymentStatus = "Dibatalkan"
)

type Rental struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	// PublicID is what customers see in listings and emails. It never
	// replaces the internal PK.
	PublicID string `gorm:"size:32;uniqueIndex" json:"publicId"`

	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	Borrower User   `gorm:"foreignKey:UserID" json:"borrower,omitempty"`

	PickupDate time.Time       `gorm:"not null" json:"pickupDate"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalPrice"`

	OrderStatus   OrderStatus   `gorm:"size:20;not null;default:'Ditinjau'" json:"orderStatus"`
	PaymentStatus PaymentStatus `gorm:"size:30;not null;default:'Ditinjau'" json:"paymentStatus"`

	// PaymentProof is the stored filename of the transfer receipt, set by
	// the borrower and read by the approver.
	PaymentProof string `gorm:"size:100" json:"paymentProof,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []RentalItem `gorm:"foreignKey:RentalID" json:"items,omitempty"`
}

type RentalItem struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	RentalID string `gorm:"type:uuid;index;not null" json:"rentalId"`
	ItemID   string `gorm:"type:uuid;index;not null" json:"itemId"`
	Item     Item   `json:"item,omitempty"`

	DurationHours int `gorm:"not null" json:"durationHours"`

	// PriceAtCheckout is a frozen snapshot; it is never recomputed from
	// the catalog after the rental exists.
	PriceAtCheckout decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"priceAtCheckout"`
}

func (Rental) TableName() string     { return RentalTable }
func (RentalItem) TableName() string { return RentalItemTable }

// NewPublicID returns an order reference like RK-A1B2C3D4.
func NewPublicID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "RK-" + strings.ToUpper(hex.EncodeToString(buf))
}
