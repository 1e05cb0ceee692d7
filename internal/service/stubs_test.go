package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository doubles. They mimic only the behavior the services
// rely on: SKU normalization, the zero floor on inventory, unique order
// numbers and not-found errors.

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type stubProductRepo struct {
	products map[string]*model.Product
}

func newStubProductRepo(products ...model.Product) *stubProductRepo {
	repo := &stubProductRepo{products: make(map[string]*model.Product)}
	for i := range products {
		p := products[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
		repo.products[p.SKU] = &p
	}
	return repo
}

func (r *stubProductRepo) Create(_ context.Context, product *model.Product) error {
	sku := strings.ToUpper(strings.TrimSpace(product.SKU))
	if _, ok := r.products[sku]; ok {
		return gorm.ErrDuplicatedKey
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.SKU = sku
	clone := *product
	r.products[sku] = &clone
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, product *model.Product) error {
	sku := strings.ToUpper(strings.TrimSpace(product.SKU))
	clone := *product
	clone.SKU = sku
	r.products[sku] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	for sku, p := range r.products {
		if p.ID == id {
			delete(r.products, sku)
			return nil
		}
	}
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	p, ok := r.products[strings.ToUpper(strings.TrimSpace(sku))]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	skus := make([]string, 0, len(r.products))
	for sku := range r.products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	out := make([]model.Product, 0, len(skus))
	for _, sku := range skus {
		out = append(out, *r.products[sku])
	}
	return out, nil
}

func (r *stubProductRepo) Ensure(ctx context.Context, sku, name string) (*model.Product, error) {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	if normalized == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if existing, err := r.FindBySKU(ctx, normalized); err == nil {
		return existing, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = normalized
	}
	product := &model.Product{
		ID:     uuid.New(),
		SKU:    normalized,
		Name:   name,
		Status: model.ProductStatusOrdered,
	}
	r.products[normalized] = product
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) AdjustInventory(_ context.Context, sku string, delta int) error {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	if normalized == "" || delta == 0 {
		return nil
	}
	if p, ok := r.products[normalized]; ok {
		p.InventoryCount += delta
		if p.InventoryCount < 0 {
			p.InventoryCount = 0
		}
	}
	return nil
}

func (r *stubProductRepo) SetInventory(_ context.Context, sku string, count int) error {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	if count < 0 {
		count = 0
	}
	if p, ok := r.products[normalized]; ok {
		p.InventoryCount = count
	}
	return nil
}

func (r *stubProductRepo) inventory(sku string) int {
	if p, ok := r.products[strings.ToUpper(sku)]; ok {
		return p.InventoryCount
	}
	return -1
}

type stubOrderRepo struct {
	orders []*model.Order
	events []model.OrderHistoryEvent
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{}
}

func cloneOrder(order *model.Order) *model.Order {
	clone := *order
	clone.Items = append([]model.OrderItem(nil), order.Items...)
	return &clone
}

func (r *stubOrderRepo) Insert(_ context.Context, order *model.Order) error {
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	r.orders = append(r.orders, cloneOrder(order))
	return nil
}

func (r *stubOrderRepo) Replace(_ context.Context, order *model.Order) error {
	for _, existing := range r.orders {
		if existing.ID != order.ID && existing.OrderNumber == order.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	for i, existing := range r.orders {
		if existing.ID == order.ID {
			r.orders[i] = cloneOrder(order)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return cloneOrder(order), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindByNumber(_ context.Context, number string) (*model.Order, error) {
	for _, order := range r.orders {
		if order.OrderNumber == number {
			return cloneOrder(order), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) ListRecent(_ context.Context, limit int) ([]model.Order, error) {
	out := r.filtered(func(o *model.Order) bool { return !o.IsCancelled() })
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubOrderRepo) ListForReport(_ context.Context, start, end *time.Time) ([]model.Order, error) {
	return r.filtered(func(o *model.Order) bool {
		if o.IsCancelled() {
			return false
		}
		if start != nil && o.OrderDate.Before(*start) {
			return false
		}
		if end != nil && o.OrderDate.After(*end) {
			return false
		}
		return true
	}), nil
}

func (r *stubOrderRepo) ListOutstanding(_ context.Context) ([]model.Order, error) {
	out := r.filtered(func(o *model.Order) bool {
		return !o.IsCancelled() && !model.StatusIs(o.Status, model.OrderStatusShipped)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })
	return out, nil
}

func (r *stubOrderRepo) ListCompleted(_ context.Context, limit int) ([]model.Order, error) {
	out := r.filtered(func(o *model.Order) bool {
		return model.StatusIs(o.Status, model.OrderStatusShipped)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, shipDate *time.Time) error {
	for _, order := range r.orders {
		if order.ID == id {
			order.Status = status
			order.ShipDate = shipDate
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, order := range r.orders {
		if order.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubOrderRepo) MaxNumberForPrefix(_ context.Context, prefix string) (string, error) {
	best := ""
	for _, order := range r.orders {
		number := order.OrderNumber
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		if best == "" ||
			len(number) > len(best) ||
			(len(number) == len(best) && number > best) {
			best = number
		}
	}
	return best, nil
}

func (r *stubOrderRepo) LogEvent(_ context.Context, event *model.OrderHistoryEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	r.events = append(r.events, *event)
	return nil
}

func (r *stubOrderRepo) ListHistory(_ context.Context, filter repository.HistoryFilter) ([]model.OrderHistoryEvent, error) {
	var out []model.OrderHistoryEvent
	for i := len(r.events) - 1; i >= 0; i-- {
		event := r.events[i]
		if filter.OrderNumber != "" &&
			!strings.Contains(strings.ToUpper(event.OrderNumber), strings.ToUpper(filter.OrderNumber)) {
			continue
		}
		out = append(out, event)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubOrderRepo) QuantitySoldSince(_ context.Context, since time.Time) (map[string]int, error) {
	sold := make(map[string]int)
	for _, order := range r.orders {
		if order.IsCancelled() || order.OrderDate.Before(since) {
			continue
		}
		for i := range order.Items {
			sold[order.Items[i].ProductSKU] += order.Items[i].Quantity
		}
	}
	return sold, nil
}

func (r *stubOrderRepo) TaxTotal(_ context.Context) (float64, error) {
	var total float64
	for _, order := range r.orders {
		if !order.IsCancelled() {
			total += order.TaxAmount
		}
	}
	return total, nil
}

func (r *stubOrderRepo) filtered(keep func(*model.Order) bool) []model.Order {
	var out []model.Order
	for _, order := range r.orders {
		if keep(order) {
			out = append(out, *cloneOrder(order))
		}
	}
	return out
}

func (r *stubOrderRepo) eventsFor(number string) []model.OrderHistoryEvent {
	var out []model.OrderHistoryEvent
	for _, event := range r.events {
		if event.OrderNumber == number {
			out = append(out, event)
		}
	}
	return out
}

type stubSettingsRepo struct {
	values map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{values: make(map[string]string)}
}

func (r *stubSettingsRepo) Get(_ context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *stubSettingsRepo) Set(_ context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

func (r *stubSettingsRepo) All(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out, nil
}
