package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const CategoryTable = "rk_categories"
const ItemTable = "rk_items"

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []Item `gorm:"foreignKey:CategoryID" json:"-"`
}

type Item struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"size:100;not null" json:"name"`
	Description  string           `gorm:"type:text" json:"description,omitempty"`
	PricePerHour *decimal.Decimal `gorm:"type:numeric(10,2)" json:"pricePerHour,omitempty"`
	PricePerDay  decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"pricePerDay"`

	// Stock is mutated only by the lifecycle engine's transition side
	// effects; storefront code never writes it directly.
	Stock int `gorm:"not null;default:1" json:"stock"`

	ImageFilename string `gorm:"size:100;default:'default_item.jpg'" json:"imageFilename"`

	CategoryID string   `gorm:"type:uuid;index;not null" json:"categoryId"`
	Category   Category `json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return CategoryTable }
func (Item) TableName() string     { return ItemTable }
