// Package cart holds a shopper's pending lines as an explicit value
// object: it travels through handlers and a Redis store, never through
// globally shared session state.
package cart

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrDuplicateLine = errors.New("item with this duration is already in the cart")

// halfDayFactor prices a 12 hour rental at 0.6x the daily rate.
var halfDayFactor = decimal.NewFromFloat(0.6)

// Line is one item + duration entry. PricePerDay is copied from the
// catalog at add time; the binding snapshot happens at checkout.
type Line struct {
	ItemID        string          `json:"itemId"`
	Name          string          `json:"name"`
	DurationHours int             `json:"durationHours"`
	PricePerDay   decimal.Decimal `json:"pricePerDay"`
}

// Key identifies a line: the same item may appear twice with different
// durations, but not twice with the same one.
func (l Line) Key() string {
	return l.ItemID + "_" + strconv.Itoa(l.DurationHours)
}

// Price applies the duration rule: 12 hours costs 0.6x the daily rate,
// anything else costs the full daily rate.
func (l Line) Price() decimal.Decimal {
	if l.DurationHours == 12 {
		return l.PricePerDay.Mul(halfDayFactor)
	}
	return l.PricePerDay
}

type Cart struct {
	Lines []Line `json:"lines"`
}

func (c *Cart) Add(l Line) error {
	for _, have := range c.Lines {
		if have.Key() == l.Key() {
			return ErrDuplicateLine
		}
	}
	c.Lines = append(c.Lines, l)
	return nil
}

// Remove drops the line with the given key, reporting whether it existed.
func (c *Cart) Remove(key string) bool {
	for i, l := range c.Lines {
		if l.Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Price())
	}
	return total
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }
