package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/pricing"
	"github.com/RF-YVY/HustleNest/internal/repository"
	"github.com/RF-YVY/HustleNest/internal/sequence"
	ws "github.com/RF-YVY/HustleNest/internal/websocket"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderItemInput is one requested line. Unit price, base cost and cost
// components are optional; unset fields inherit from the product record so
// the stored item is always a complete snapshot.
type OrderItemInput struct {
	ProductSKU         string                `json:"product_sku" binding:"required"`
	ProductName        string                `json:"product_name"`
	ProductDescription string                `json:"product_description"`
	Quantity           int                   `json:"quantity"`
	UnitPrice          *float64              `json:"unit_price"`
	BaseUnitCost       *float64              `json:"base_unit_cost"`
	CostComponents     []model.CostComponent `json:"cost_components"`
	IsFreebie          bool                  `json:"is_freebie"`
}

// OrderInput is a requested order create or update. A blank order number
// asks the sequence generator for the next one.
type OrderInput struct {
	OrderNumber          string           `json:"order_number"`
	CustomerName         string           `json:"customer_name"`
	CustomerAddress      string           `json:"customer_address"`
	Notes                string           `json:"notes"`
	Status               string           `json:"status"`
	IsPaid               bool             `json:"is_paid"`
	Carrier              string           `json:"carrier"`
	TrackingNumber       string           `json:"tracking_number"`
	OrderDate            time.Time        `json:"order_date"`
	ShipDate             *time.Time       `json:"ship_date"`
	TargetCompletionDate *time.Time       `json:"target_completion_date"`
	Items                []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, input OrderInput) (*model.Order, error)
	UpdateOrder(ctx context.Context, id string, input OrderInput) (*model.Order, error)
	CancelOrder(ctx context.Context, id string) error
	DeleteOrder(ctx context.Context, id string) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListRecentOrders(ctx context.Context, limit int) ([]model.Order, error)
	ListOrderHistory(ctx context.Context, filter repository.HistoryFilter) ([]model.OrderHistoryEvent, error)
	PreviewOrderNumber(ctx context.Context) (string, error)
	OrderNumberForSKU(ctx context.Context, sku string) (string, error)
	OrderStatuses() []string
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	settings SettingsService
	seq      *sequence.Generator
	tx       repository.TransactionManager
	hub      *ws.Hub
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	settings SettingsService,
	seq *sequence.Generator,
	tx repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		settings: settings,
		seq:      seq,
		tx:       tx,
		hub:      hub,
	}
}

// frozenTax carries the tax terms captured when an order was first created.
// Updates reuse them instead of re-reading the current settings.
type frozenTax struct {
	rate     float64
	included bool
}

func (s *orderService) CreateOrder(ctx context.Context, input OrderInput) (*model.Order, error) {
	order, err := s.buildOrder(ctx, input, nil)
	if err != nil {
		return nil, err
	}

	explicit := strings.ToUpper(strings.TrimSpace(input.OrderNumber))
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if explicit == "" {
			reserved, reserveErr := s.seq.Reserve(txCtx)
			if reserveErr != nil {
				return reserveErr
			}
			order.OrderNumber = reserved
		} else {
			order.OrderNumber = explicit
			if advanceErr := s.seq.AdvancePast(txCtx, explicit); advanceErr != nil {
				return advanceErr
			}
		}

		if insertErr := s.orders.Insert(txCtx, order); insertErr != nil {
			if errors.Is(insertErr, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("order number %s already exists", order.OrderNumber)
			}
			return apperr.Storage(insertErr, "failed to save order")
		}

		for i := range order.Items {
			item := &order.Items[i]
			if ledgerErr := s.products.AdjustInventory(txCtx, item.ProductSKU, -item.Quantity); ledgerErr != nil {
				return apperr.Storage(ledgerErr, "failed to debit inventory for %s", item.ProductSKU)
			}
		}

		return s.logEvent(txCtx, order.ID, order.OrderNumber, model.EventOrderCreated,
			fmt.Sprintf("Order created with %d items.", len(order.Items)), order.DisplayTotal())
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("order_number", order.OrderNumber).Int("items", len(order.Items)).Msg("order created")
	s.publish("order_created", order)
	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, input OrderInput) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}
	existing, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}

	updated, err := s.buildOrder(ctx, input, &frozenTax{
		rate:     existing.TaxRate,
		included: existing.TaxIncludedInTotal,
	})
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	explicit := strings.ToUpper(strings.TrimSpace(input.OrderNumber))
	if explicit == "" {
		explicit = existing.OrderNumber
	}
	updated.OrderNumber = explicit

	// One pass over the union of old and new SKUs: the ledger sees only the
	// net movement per SKU, never a transient restock-then-debit that the
	// zero floor could clamp away.
	quantityDiff := make(map[string]int)
	for i := range updated.Items {
		quantityDiff[updated.Items[i].ProductSKU] += updated.Items[i].Quantity
	}
	for i := range existing.Items {
		quantityDiff[existing.Items[i].ProductSKU] -= existing.Items[i].Quantity
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if advanceErr := s.seq.AdvancePast(txCtx, updated.OrderNumber); advanceErr != nil {
			return advanceErr
		}

		if replaceErr := s.orders.Replace(txCtx, updated); replaceErr != nil {
			if errors.Is(replaceErr, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("order number %s already exists", updated.OrderNumber)
			}
			return apperr.Storage(replaceErr, "failed to save order")
		}

		for sku, diff := range quantityDiff {
			if diff == 0 {
				continue
			}
			if ledgerErr := s.products.AdjustInventory(txCtx, sku, -diff); ledgerErr != nil {
				return apperr.Storage(ledgerErr, "failed to adjust inventory for %s", sku)
			}
		}

		description := "Order updated."
		if existing.Status != updated.Status {
			description = fmt.Sprintf("Order updated. Status changed from %s to %s.", existing.Status, updated.Status)
		}
		delta := updated.DisplayTotal() - existing.DisplayTotal()
		return s.logEvent(txCtx, updated.ID, updated.OrderNumber, model.EventOrderUpdated, description, delta)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("order_number", updated.OrderNumber).Msg("order updated")
	s.publish("order_updated", updated)
	return updated, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid order id")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return apperr.FromDB(err, "order not found")
	}
	if order.IsCancelled() {
		return nil
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if restockErr := s.restockItems(txCtx, order.Items); restockErr != nil {
			return restockErr
		}
		if statusErr := s.orders.UpdateStatus(txCtx, order.ID, model.OrderStatusCancelled, nil); statusErr != nil {
			return apperr.Storage(statusErr, "failed to cancel order")
		}
		return s.logEvent(txCtx, order.ID, order.OrderNumber, model.EventOrderCancelled,
			"Order cancelled and inventory restored.", -order.DisplayTotal())
	})
	if err != nil {
		return err
	}

	log.Info().Str("order_number", order.OrderNumber).Msg("order cancelled")
	order.Status = model.OrderStatusCancelled
	s.publish("order_cancelled", order)
	return nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid order id")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return apperr.FromDB(err, "order not found")
	}
	wasCancelled := order.IsCancelled()

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if !wasCancelled {
			if restockErr := s.restockItems(txCtx, order.Items); restockErr != nil {
				return restockErr
			}
		}

		description := "Order deleted from system."
		delta := -order.DisplayTotal()
		if wasCancelled {
			description += " (Previously cancelled.)"
			delta = 0
		}
		if logErr := s.logEvent(txCtx, order.ID, order.OrderNumber, model.EventOrderDeleted, description, delta); logErr != nil {
			return logErr
		}

		if deleteErr := s.orders.Delete(txCtx, order.ID); deleteErr != nil {
			return apperr.Storage(deleteErr, "failed to delete order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("order_number", order.OrderNumber).Msg("order deleted")
	s.publish("order_deleted", order)
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}
	return order, nil
}

func (s *orderService) ListRecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	orders, err := s.orders.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) ListOrderHistory(ctx context.Context, filter repository.HistoryFilter) ([]model.OrderHistoryEvent, error) {
	events, err := s.orders.ListHistory(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list order history")
	}
	return events, nil
}

func (s *orderService) PreviewOrderNumber(ctx context.Context) (string, error) {
	return s.seq.Preview(ctx)
}

func (s *orderService) OrderNumberForSKU(ctx context.Context, sku string) (string, error) {
	return s.seq.ForSKU(ctx, sku)
}

func (s *orderService) OrderStatuses() []string {
	return model.OrderStatuses()
}

// buildOrder normalizes and validates the input, resolves products (creating
// stubs for unknown SKUs), completes each item snapshot and freezes the tax
// terms. It performs no writes to orders or inventory.
func (s *orderService) buildOrder(ctx context.Context, input OrderInput, frozen *frozenTax) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperr.Validation("at least one line item is required")
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, itemInput := range input.Items {
		item, err := s.buildItem(ctx, itemInput)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	if input.TargetCompletionDate != nil && input.TargetCompletionDate.Before(orderDate) {
		return nil, apperr.Validation("target completion date cannot be before the order date")
	}

	status := model.NormalizeOrderStatus(input.Status)
	shipDate := input.ShipDate
	if model.StatusIs(status, model.OrderStatusShipped) && shipDate == nil {
		now := time.Now()
		shipDate = &now
	}

	order := &model.Order{
		CustomerName:         strings.TrimSpace(input.CustomerName),
		CustomerAddress:      strings.TrimSpace(input.CustomerAddress),
		Notes:                strings.TrimSpace(input.Notes),
		Status:               status,
		IsPaid:               input.IsPaid,
		Carrier:              strings.TrimSpace(input.Carrier),
		TrackingNumber:       strings.TrimSpace(input.TrackingNumber),
		OrderDate:            orderDate,
		ShipDate:             shipDate,
		TargetCompletionDate: input.TargetCompletionDate,
		Items:                items,
	}

	if frozen == nil {
		settings, err := s.settings.AppSettings(ctx)
		if err != nil {
			return nil, err
		}
		order.TaxRate = pricing.ClampRate(settings.TaxRatePercent)
		order.TaxIncludedInTotal = settings.TaxAddToTotal
	} else {
		order.TaxRate = frozen.rate
		order.TaxIncludedInTotal = frozen.included
	}
	order.TaxAmount = pricing.OrderTax(order.TotalAmount(), order.TaxRate)

	return order, nil
}

func (s *orderService) buildItem(ctx context.Context, input OrderItemInput) (*model.OrderItem, error) {
	sku := strings.ToUpper(strings.TrimSpace(input.ProductSKU))
	if sku == "" {
		return nil, apperr.Validation("item SKU is required")
	}
	if input.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative for %s", sku)
	}
	if input.Quantity == 0 && !input.IsFreebie {
		return nil, apperr.Validation("quantity must be positive for %s", sku)
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return nil, apperr.Validation("unit price cannot be negative for %s", sku)
	}
	for _, component := range input.CostComponents {
		if component.Amount < 0 {
			return nil, apperr.Validation("cost component %q cannot be negative", component.Label)
		}
	}

	product, err := s.products.Ensure(ctx, sku, strings.TrimSpace(input.ProductName))
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	productID := product.ID
	item := &model.OrderItem{
		ProductID:          &productID,
		ProductSKU:         product.SKU,
		ProductName:        product.Name,
		ProductDescription: strings.TrimSpace(input.ProductDescription),
		Quantity:           input.Quantity,
		IsFreebie:          input.IsFreebie,
	}

	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	} else {
		item.UnitPrice = product.DefaultUnitPrice
	}
	if input.BaseUnitCost != nil {
		item.BaseUnitCost = *input.BaseUnitCost
	} else {
		item.BaseUnitCost = product.BaseUnitCost
	}
	if item.BaseUnitCost < 0 {
		item.BaseUnitCost = 0
	}
	if input.CostComponents != nil {
		item.CostComponents = append(model.CostComponents{}, input.CostComponents...)
	} else {
		item.CostComponents = append(model.CostComponents{}, product.PricingComponents...)
	}

	pricing.AnnotateItem(item, product.DefaultUnitPrice)
	return item, nil
}

func (s *orderService) restockItems(ctx context.Context, items []model.OrderItem) error {
	for i := range items {
		item := &items[i]
		if strings.TrimSpace(item.ProductSKU) == "" {
			continue
		}
		if err := s.products.AdjustInventory(ctx, item.ProductSKU, item.Quantity); err != nil {
			return apperr.Storage(err, "failed to restock inventory for %s", item.ProductSKU)
		}
	}
	return nil
}

func (s *orderService) logEvent(ctx context.Context, orderID uuid.UUID, orderNumber, eventType, description string, amountDelta float64) error {
	event := &model.OrderHistoryEvent{
		OrderNumber: orderNumber,
		EventType:   eventType,
		Description: description,
		AmountDelta: pricing.Round2(amountDelta),
	}
	if orderID != uuid.Nil {
		id := orderID
		event.OrderID = &id
	}
	if err := s.orders.LogEvent(ctx, event); err != nil {
		return apperr.Storage(err, "failed to record order history")
	}
	return nil
}

func (s *orderService) publish(event string, order *model.Order) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ws.Event{
		Event: event,
		Data: map[string]interface{}{
			"order_number":  order.OrderNumber,
			"status":        order.Status,
			"display_total": pricing.Round2(order.DisplayTotal()),
		},
	})
}
