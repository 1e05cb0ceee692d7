package repository

import (
	"context"
	"time"

	"github.com/RF-YVY/HustleNest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryFilter narrows an order history query. All fields are optional.
type HistoryFilter struct {
	OrderNumber string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
}

type OrderRepository interface {
	Insert(ctx context.Context, order *model.Order) error
	// Replace rewrites the order header and swaps the full item set.
	Replace(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	// ListForReport returns non-cancelled orders with items inside the
	// inclusive date range; either bound may be nil.
	ListForReport(ctx context.Context, start, end *time.Time) ([]model.Order, error)
	ListOutstanding(ctx context.Context) ([]model.Order, error)
	ListCompleted(ctx context.Context, limit int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, shipDate *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MaxNumberForPrefix returns the lexicographically greatest order number
	// sharing the prefix, tie-broken by length, or "" when none exists.
	MaxNumberForPrefix(ctx context.Context, prefix string) (string, error)
	LogEvent(ctx context.Context, event *model.OrderHistoryEvent) error
	ListHistory(ctx context.Context, filter HistoryFilter) ([]model.OrderHistoryEvent, error)
	// QuantitySoldSince sums item quantities per SKU over non-cancelled
	// orders dated on or after the cutoff.
	QuantitySoldSince(ctx context.Context, since time.Time) (map[string]int, error)
	TaxTotal(ctx context.Context) (float64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Insert(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) Replace(ctx context.Context, order *model.Order) error {
	db := GetDB(ctx, r.db)
	if err := db.Omit(clause.Associations).Save(order).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.Nil
		order.Items[i].OrderID = order.ID
	}
	if len(order.Items) == 0 {
		return nil
	}
	return db.Create(&order.Items).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("order_number = ?", number).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("UPPER(status) <> ?", "CANCELLED").
		Order("order_date DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListForReport(ctx context.Context, start, end *time.Time) ([]model.Order, error) {
	db := GetDB(ctx, r.db).Preload("Items").
		Where("UPPER(status) <> ?", "CANCELLED")
	if start != nil {
		db = db.Where("order_date >= ?", *start)
	}
	if end != nil {
		db = db.Where("order_date <= ?", *end)
	}
	var orders []model.Order
	if err := db.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListOutstanding(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("UPPER(status) <> ? AND UPPER(status) <> ?", "SHIPPED", "CANCELLED").
		Order("order_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListCompleted(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("UPPER(status) = ?", "SHIPPED").
		Order("COALESCE(ship_date, order_date) DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, shipDate *time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    status,
			"ship_date": shipDate,
		}).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Order{}).Error
}

func (r *orderRepository) MaxNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error; err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *orderRepository) LogEvent(ctx context.Context, event *model.OrderHistoryEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *orderRepository) ListHistory(ctx context.Context, filter HistoryFilter) ([]model.OrderHistoryEvent, error) {
	db := GetDB(ctx, r.db).Model(&model.OrderHistoryEvent{})
	if filter.OrderNumber != "" {
		db = db.Where("order_number ILIKE ?", "%"+filter.OrderNumber+"%")
	}
	if filter.StartDate != nil {
		db = db.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// Inclusive of the end day.
		db = db.Where("created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	var events []model.OrderHistoryEvent
	if err := db.Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *orderRepository) QuantitySoldSince(ctx context.Context, since time.Time) (map[string]int, error) {
	var rows []struct {
		SKU string
		Qty int
	}
	if err := GetDB(ctx, r.db).Table("order_items").
		Select("order_items.product_sku AS sku, SUM(order_items.quantity) AS qty").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.order_date >= ? AND UPPER(orders.status) <> ?", since, "CANCELLED").
		Group("order_items.product_sku").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sold := make(map[string]int, len(rows))
	for _, row := range rows {
		sold[row.SKU] = row.Qty
	}
	return sold, nil
}

func (r *orderRepository) TaxTotal(ctx context.Context) (float64, error) {
	var total float64
	if err := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("UPPER(status) <> ?", "CANCELLED").
		Select("COALESCE(SUM(tax_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
