package service

import (
	"context"
	"testing"
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/repository"
	"github.com/RF-YVY/HustleNest/internal/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders   *stubOrderRepo
	products *stubProductRepo
	settings SettingsService
	service  OrderService
}

func newOrderFixture(products ...model.Product) *orderFixture {
	orderRepo := newStubOrderRepo()
	productRepo := newStubProductRepo(products...)
	settings := NewSettingsService(newStubSettingsRepo())
	generator := sequence.New(settings, orderRepo)
	return &orderFixture{
		orders:   orderRepo,
		products: productRepo,
		settings: settings,
		service:  NewOrderService(orderRepo, productRepo, settings, generator, stubTxManager{}, nil),
	}
}

func floatPtr(v float64) *float64 { return &v }

func basketProduct() model.Product {
	return model.Product{
		SKU:              "WKR-01",
		Name:             "Wicker Basket",
		InventoryCount:   10,
		Status:           model.ProductStatusAvailable,
		BaseUnitCost:     2,
		DefaultUnitPrice: 5,
	}
}

func TestCreateOrderDebitsInventoryAndLogsHistory(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		CustomerName: "Dana",
		Items: []OrderItemInput{
			{ProductSKU: "wkr-01", Quantity: 3, UnitPrice: floatPtr(5)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-0001", order.OrderNumber)
	assert.Equal(t, 7, fix.products.inventory("WKR-01"))

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "WKR-01", item.ProductSKU)
	assert.Equal(t, 15.0, item.LineTotal())
	assert.Equal(t, 6.0, item.LineCost())
	assert.Equal(t, 9.0, item.LineProfit())

	events := fix.orders.eventsFor("ORD-0001")
	require.Len(t, events, 1)
	assert.Equal(t, model.EventOrderCreated, events[0].EventType)
	assert.Equal(t, "Order created with 1 items.", events[0].Description)
	assert.Equal(t, 15.0, events[0].AmountDelta)
}

func TestCreateOrderReservesSequentialNumbers(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	for _, want := range []string{"ORD-0001", "ORD-0002", "ORD-0003"} {
		order, err := fix.service.CreateOrder(context.Background(), OrderInput{
			Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderNumber)
	}
}

func TestCreateOrderExplicitNumberAdvancesCounter(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		OrderNumber: "ord-0042",
		Items:       []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-0042", order.OrderNumber)

	// The counter moved past the explicit number so the next automatic
	// reservation cannot collide with it.
	next, err := fix.service.PreviewOrderNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-0043", next)
}

func TestCreateOrderDuplicateNumberConflicts(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	_, err := fix.service.CreateOrder(context.Background(), OrderInput{
		OrderNumber: "ORD-0042",
		Items:       []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = fix.service.CreateOrder(context.Background(), OrderInput{
		OrderNumber: "ORD-0042",
		Items:       []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateOrderUnknownSKUCreatesStub(t *testing.T) {
	fix := newOrderFixture()

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{
			{ProductSKU: " new-sku ", ProductName: "Hand Towel", Quantity: 2, UnitPrice: floatPtr(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW-SKU", order.Items[0].ProductSKU)

	stub, err := fix.products.FindBySKU(context.Background(), "NEW-SKU")
	require.NoError(t, err)
	assert.Equal(t, "Hand Towel", stub.Name)
	assert.Equal(t, model.ProductStatusOrdered, stub.Status)
}

func TestCreateOrderValidation(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	_, err := fix.service.CreateOrder(context.Background(), OrderInput{})
	assert.True(t, apperr.IsValidation(err))

	_, err = fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 0}},
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1, UnitPrice: floatPtr(-2)}},
	})
	assert.True(t, apperr.IsValidation(err))

	orderDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	target := orderDate.AddDate(0, 0, -1)
	_, err = fix.service.CreateOrder(context.Background(), OrderInput{
		OrderDate:            orderDate,
		TargetCompletionDate: &target,
		Items:                []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateOrderZeroQuantityFreebieAllowed(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{
			{ProductSKU: "WKR-01", Quantity: 1},
			{ProductSKU: "WKR-01", Quantity: 0, IsFreebie: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.Items[1].UnitPrice)
}

func TestCreateOrderFreebiePricing(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{
			{ProductSKU: "WKR-01", Quantity: 2, IsFreebie: true},
		},
	})
	require.NoError(t, err)

	item := order.Items[0]
	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 10.0, item.AppliedDiscount)
	assert.Equal(t, "Freebie - default price waived", item.PriceAdjustmentNote)
	assert.Equal(t, 0.0, order.TotalAmount())
}

func TestCreateOrderShippedAutoFillsShipDate(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Status: "shipped",
		Items:  []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)
	require.NotNil(t, order.ShipDate)
}

func TestCreateOrderItemInheritsProductDefaults(t *testing.T) {
	product := basketProduct()
	product.PricingComponents = model.CostComponents{{Label: "Shipping", Amount: 1.5}}
	fix := newOrderFixture(product)

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 2}},
	})
	require.NoError(t, err)

	item := order.Items[0]
	assert.Equal(t, 5.0, item.UnitPrice)
	assert.Equal(t, 2.0, item.BaseUnitCost)
	assert.Equal(t, 3.5, item.UnitCost())
	assert.Equal(t, 7.0, item.LineCost())
}

func TestUpdateOrderAppliesNetInventoryDelta(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, fix.products.inventory("WKR-01"))

	// Raising the quantity debits only the difference.
	_, err = fix.service.UpdateOrder(context.Background(), order.ID.String(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, fix.products.inventory("WKR-01"))

	// Lowering it restores the difference.
	_, err = fix.service.UpdateOrder(context.Background(), order.ID.String(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, fix.products.inventory("WKR-01"))
}

func TestUpdateOrderKeepsFrozenTaxTerms(t *testing.T) {
	fix := newOrderFixture(basketProduct())
	_, err := fix.settings.UpdateAppSettings(context.Background(), model.AppSettings{
		TaxRatePercent: 10,
		TaxAddToTotal:  true,
	})
	require.NoError(t, err)

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 2, UnitPrice: floatPtr(50)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, order.TaxRate)
	assert.Equal(t, 10.0, order.TaxAmount)
	assert.Equal(t, 110.0, order.DisplayTotal())

	// A later settings change must not leak into the existing order, but the
	// tax amount is recomputed at the frozen rate for the new subtotal.
	_, err = fix.settings.UpdateAppSettings(context.Background(), model.AppSettings{
		TaxRatePercent: 20,
		TaxAddToTotal:  true,
	})
	require.NoError(t, err)

	updated, err := fix.service.UpdateOrder(context.Background(), order.ID.String(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 4, UnitPrice: floatPtr(50)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.TaxRate)
	assert.Equal(t, 20.0, updated.TaxAmount)
}

func TestUpdateOrderRecordsStatusChange(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Status: "Received",
		Items:  []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = fix.service.UpdateOrder(context.Background(), order.ID.String(), OrderInput{
		Status: "Processing",
		Items:  []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)

	events := fix.orders.eventsFor(order.OrderNumber)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventOrderUpdated, events[1].EventType)
	assert.Contains(t, events[1].Description, "Received")
	assert.Contains(t, events[1].Description, "Processing")
}

func TestCancelOrderRestocksAndIsIdempotent(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Status: "Shipped",
		Items:  []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, fix.products.inventory("WKR-01"))

	require.NoError(t, fix.service.CancelOrder(context.Background(), order.ID.String()))
	assert.Equal(t, 10, fix.products.inventory("WKR-01"))

	cancelled, err := fix.service.GetOrder(context.Background(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.ShipDate)

	// Second cancel changes nothing and logs nothing.
	require.NoError(t, fix.service.CancelOrder(context.Background(), order.ID.String()))
	assert.Equal(t, 10, fix.products.inventory("WKR-01"))

	events := fix.orders.eventsFor(order.OrderNumber)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventOrderCancelled, events[1].EventType)
	assert.Equal(t, "Order cancelled and inventory restored.", events[1].Description)
	assert.Equal(t, -20.0, events[1].AmountDelta)
}

func TestDeleteOrderRestocksUnlessCancelled(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, fix.products.inventory("WKR-01"))

	require.NoError(t, fix.service.DeleteOrder(context.Background(), order.ID.String()))
	assert.Equal(t, 10, fix.products.inventory("WKR-01"))

	_, err = fix.service.GetOrder(context.Background(), order.ID.String())
	assert.True(t, apperr.IsNotFound(err))

	events := fix.orders.eventsFor(order.OrderNumber)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventOrderDeleted, events[1].EventType)
	assert.Equal(t, "Order deleted from system.", events[1].Description)
	assert.Equal(t, -15.0, events[1].AmountDelta)
}

func TestDeleteCancelledOrderDoesNotRestockTwice(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 3}},
	})
	require.NoError(t, err)
	require.NoError(t, fix.service.CancelOrder(context.Background(), order.ID.String()))
	require.Equal(t, 10, fix.products.inventory("WKR-01"))

	require.NoError(t, fix.service.DeleteOrder(context.Background(), order.ID.String()))
	assert.Equal(t, 10, fix.products.inventory("WKR-01"))

	events := fix.orders.eventsFor(order.OrderNumber)
	require.Len(t, events, 3)
	deleted := events[2]
	assert.Equal(t, "Order deleted from system. (Previously cancelled.)", deleted.Description)
	assert.Equal(t, 0.0, deleted.AmountDelta)
}

func TestInventoryConservationAcrossLifecycle(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	order, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = fix.service.UpdateOrder(context.Background(), order.ID.String(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 6}},
	})
	require.NoError(t, err)

	require.NoError(t, fix.service.CancelOrder(context.Background(), order.ID.String()))

	// Create, update and cancel net to zero inventory movement.
	assert.Equal(t, 10, fix.products.inventory("WKR-01"))
}

func TestListOrderHistoryFiltersByNumber(t *testing.T) {
	fix := newOrderFixture(basketProduct())

	first, err := fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = fix.service.CreateOrder(context.Background(), OrderInput{
		Items: []OrderItemInput{{ProductSKU: "WKR-01", Quantity: 1}},
	})
	require.NoError(t, err)

	events, err := fix.service.ListOrderHistory(context.Background(), repository.HistoryFilter{
		OrderNumber: first.OrderNumber,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, first.OrderNumber, events[0].OrderNumber)
}
