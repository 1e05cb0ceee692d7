package pricing

import (
	"testing"

	"github.com/RF-YVY/HustleNest/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAnnotateItemFreebieWaivesDefaultPrice(t *testing.T) {
	item := &model.OrderItem{Quantity: 2, UnitPrice: 10, IsFreebie: true}

	AnnotateItem(item, 10)

	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 20.0, item.AppliedDiscount)
	assert.Equal(t, NoteFreebieWaived, item.PriceAdjustmentNote)
	assert.Equal(t, 0.0, item.LineTotal())
}

func TestAnnotateItemFreebieWithoutDefaultPrice(t *testing.T) {
	item := &model.OrderItem{Quantity: 1, UnitPrice: 5, IsFreebie: true}

	AnnotateItem(item, 0)

	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 0.0, item.AppliedDiscount)
	assert.Equal(t, NoteFreebie, item.PriceAdjustmentNote)
}

func TestAnnotateItemDiscountAndSurcharge(t *testing.T) {
	discounted := &model.OrderItem{Quantity: 3, UnitPrice: 4}
	AnnotateItem(discounted, 5)
	assert.Equal(t, 3.0, discounted.AppliedDiscount)
	assert.Equal(t, 0.0, discounted.AppliedTax)

	surcharged := &model.OrderItem{Quantity: 2, UnitPrice: 6}
	AnnotateItem(surcharged, 5)
	assert.Equal(t, 0.0, surcharged.AppliedDiscount)
	assert.Equal(t, 2.0, surcharged.AppliedTax)
}

func TestAnnotateItemEpsilonBand(t *testing.T) {
	// A sub-half-cent delta is rounding noise, never an adjustment.
	item := &model.OrderItem{Quantity: 1, UnitPrice: 5.004}
	AnnotateItem(item, 5)

	assert.Equal(t, 0.0, item.AppliedDiscount)
	assert.Equal(t, 0.0, item.AppliedTax)
	assert.Equal(t, "", item.PriceAdjustmentNote)
}

func TestAnnotateItemNoDefaultPrice(t *testing.T) {
	custom := &model.OrderItem{Quantity: 1, UnitPrice: 7.5}
	AnnotateItem(custom, 0)
	assert.Equal(t, NoteCustomPrice, custom.PriceAdjustmentNote)

	zeroed := &model.OrderItem{Quantity: 1, UnitPrice: 0}
	AnnotateItem(zeroed, 0)
	assert.Equal(t, NoteZeroPrice, zeroed.PriceAdjustmentNote)
}

func TestOrderTax(t *testing.T) {
	assert.Equal(t, 8.25, OrderTax(100, 8.25))
	assert.Equal(t, 0.0, OrderTax(100, 0))
	assert.Equal(t, 0.0, OrderTax(0, 10))

	// Rates outside [0, 100] are clamped.
	assert.Equal(t, 0.0, OrderTax(100, -5))
	assert.Equal(t, 100.0, OrderTax(100, 250))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.57, Round2(10.565))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.5, Round2(-2.499999999))
}
