// Package pricing holds the pure calculations behind line and order totals:
// freebie and discount annotation, surcharge detection and the order-level
// tax that gets frozen into each order at build time.
package pricing

import (
	"github.com/RF-YVY/HustleNest/internal/model"

	"github.com/shopspring/decimal"
)

// Price deltas inside this band are treated as rounding noise, not as a
// discount or surcharge.
const epsilon = 0.005

// Annotation notes written onto order items.
const (
	NoteFreebieWaived = "Freebie - default price waived"
	NoteFreebie       = "Freebie item"
	NoteCustomPrice   = "Custom unit price (no default price)"
	NoteZeroPrice     = "Price overridden to zero"
)

// Round2 rounds a monetary value to two decimal places.
func Round2(value float64) float64 {
	out, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return out
}

// AnnotateItem derives the applied discount, applied surcharge and the price
// adjustment note for one line by comparing the actual line value against the
// product's default-price line value. Freebie lines have their unit price
// forced to zero with the waived default recorded as a discount.
func AnnotateItem(item *model.OrderItem, defaultUnitPrice float64) {
	item.AppliedDiscount = 0
	item.AppliedTax = 0
	item.PriceAdjustmentNote = ""

	qty := decimal.NewFromInt(int64(item.Quantity))
	actual := qty.Mul(decimal.NewFromFloat(item.UnitPrice))
	standard := qty.Mul(decimal.NewFromFloat(defaultUnitPrice))

	if item.IsFreebie {
		item.UnitPrice = 0
		if standard.IsPositive() {
			item.AppliedDiscount, _ = standard.Round(2).Float64()
			item.PriceAdjustmentNote = NoteFreebieWaived
		} else {
			item.PriceAdjustmentNote = NoteFreebie
		}
		return
	}

	if standard.IsPositive() {
		delta := actual.Sub(standard)
		eps := decimal.NewFromFloat(epsilon)
		switch {
		case delta.LessThan(eps.Neg()):
			item.AppliedDiscount, _ = delta.Neg().Round(2).Float64()
		case delta.GreaterThan(eps):
			item.AppliedTax, _ = delta.Round(2).Float64()
		}
		return
	}

	if actual.IsPositive() {
		item.PriceAdjustmentNote = NoteCustomPrice
	} else {
		item.PriceAdjustmentNote = NoteZeroPrice
	}
}

// OrderTax computes the order-level tax from the subtotal and the tax rate
// percentage in effect right now. The rate is clamped to [0, 100] and the
// result rounded to cents. Callers freeze both onto the order record.
func OrderTax(subtotal, ratePercent float64) float64 {
	rate := ClampRate(ratePercent)
	if rate == 0 || subtotal == 0 {
		return 0
	}
	tax := decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100))
	out, _ := tax.Round(2).Float64()
	return out
}

// ClampRate bounds a tax rate percentage to [0, 100].
func ClampRate(ratePercent float64) float64 {
	if ratePercent < 0 {
		return 0
	}
	if ratePercent > 100 {
		return 100
	}
	return ratePercent
}
