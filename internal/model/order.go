package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order history event types.
const (
	EventOrderCreated   = "Created"
	EventOrderUpdated   = "Updated"
	EventOrderCancelled = "Cancelled"
	EventOrderDeleted   = "Deleted"
)

// Order is a customer transaction with denormalized line items. The tax rate
// and amount are frozen at creation time; changing the global tax setting
// never rewrites existing orders.
type Order struct {
	ID                   uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber          string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_number"`
	CustomerName         string      `gorm:"type:varchar(255);not null;default:''" json:"customer_name"`
	CustomerAddress      string      `gorm:"type:text;not null;default:''" json:"customer_address"`
	OrderDate            time.Time   `gorm:"type:date;not null" json:"order_date"`
	ShipDate             *time.Time  `gorm:"type:date" json:"ship_date"`
	TargetCompletionDate *time.Time  `gorm:"type:date" json:"target_completion_date"`
	Status               string      `gorm:"type:varchar(50);not null" json:"status"`
	IsPaid               bool        `gorm:"not null;default:false" json:"is_paid"`
	Carrier              string      `gorm:"type:varchar(100);not null;default:''" json:"carrier"`
	TrackingNumber       string      `gorm:"type:varchar(100);not null;default:''" json:"tracking_number"`
	Notes                string      `gorm:"type:text;not null;default:''" json:"notes"`
	TaxRate              float64     `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"`
	TaxAmount            float64     `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	TaxIncludedInTotal   bool        `gorm:"not null;default:false" json:"tax_included_in_total"`
	Items                []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TotalAmount is the sum of line totals. It is always derived, never stored.
func (o *Order) TotalAmount() float64 {
	var total float64
	for i := range o.Items {
		total += o.Items[i].LineTotal()
	}
	return total
}

// TotalCost sums the line costs of all items.
func (o *Order) TotalCost() float64 {
	var total float64
	for i := range o.Items {
		total += o.Items[i].LineCost()
	}
	return total
}

// TotalProfit is sales minus cost across all items.
func (o *Order) TotalProfit() float64 {
	return o.TotalAmount() - o.TotalCost()
}

// ProfitMargin is profit over total, zero when the total is zero.
func (o *Order) ProfitMargin() float64 {
	total := o.TotalAmount()
	if total == 0 {
		return 0
	}
	return o.TotalProfit() / total
}

// TotalWithTax is the subtotal plus the frozen tax amount.
func (o *Order) TotalWithTax() float64 {
	return o.TotalAmount() + o.TaxAmount
}

// DisplayTotal is what the customer sees: subtotal plus tax only when the
// order was created with tax folded into the total.
func (o *Order) DisplayTotal() float64 {
	if o.TaxIncludedInTotal {
		return o.TotalWithTax()
	}
	return o.TotalAmount()
}

// IsCancelled reports whether the order carries the canonical cancelled
// status, ignoring case.
func (o *Order) IsCancelled() bool {
	return StatusIs(o.Status, OrderStatusCancelled)
}

// OrderItem is a line within an order. Product name, SKU, description, cost
// and components are value copies taken when the line was added; later
// product edits never alter them.
type OrderItem struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID           *uuid.UUID     `gorm:"type:uuid;index" json:"product_id"`
	ProductSKU          string         `gorm:"type:varchar(100);not null;default:'';index" json:"product_sku"`
	ProductName         string         `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductDescription  string         `gorm:"type:text;not null;default:''" json:"product_description"`
	Quantity            int            `gorm:"not null" json:"quantity"`
	UnitPrice           float64        `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	BaseUnitCost        float64        `gorm:"type:decimal(10,2);not null;default:0" json:"base_unit_cost"`
	CostComponents      CostComponents `gorm:"type:jsonb" json:"cost_components"`
	IsFreebie           bool           `gorm:"not null;default:false" json:"is_freebie"`
	AppliedDiscount     float64        `gorm:"type:decimal(10,2);not null;default:0" json:"applied_discount"`
	AppliedTax          float64        `gorm:"type:decimal(10,2);not null;default:0" json:"applied_tax"`
	PriceAdjustmentNote string         `gorm:"type:text;not null;default:''" json:"price_adjustment_note"`
}

// LineTotal is quantity times unit price.
func (i *OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// AdditionalUnitCost is the sum of the snapshotted extra components.
func (i *OrderItem) AdditionalUnitCost() float64 {
	return i.CostComponents.Sum()
}

// UnitCost is base cost plus extras.
func (i *OrderItem) UnitCost() float64 {
	return i.BaseUnitCost + i.AdditionalUnitCost()
}

// LineCost is unit cost times quantity.
func (i *OrderItem) LineCost() float64 {
	return i.UnitCost() * float64(i.Quantity)
}

// LineProfit is total minus cost for this line.
func (i *OrderItem) LineProfit() float64 {
	return i.LineTotal() - i.LineCost()
}

// Margin is profit over total, zero when the line total is zero.
func (i *OrderItem) Margin() float64 {
	total := i.LineTotal()
	if total == 0 {
		return 0
	}
	return i.LineProfit() / total
}

// AdjustmentSummary renders the discount, surcharge and note of this line as
// a single human-readable segment list.
func (i *OrderItem) AdjustmentSummary() string {
	var segments []string
	if i.AppliedDiscount > 0.005 {
		segments = append(segments, fmt.Sprintf("Discount -$%.2f", i.AppliedDiscount))
	}
	if i.AppliedTax > 0.005 {
		segments = append(segments, fmt.Sprintf("Tax +$%.2f", i.AppliedTax))
	}
	if note := strings.TrimSpace(i.PriceAdjustmentNote); note != "" {
		segments = append(segments, note)
	}
	return strings.Join(segments, "; ")
}

// OrderHistoryEvent is an append-only audit record of an order mutation. The
// order reference is nullable so the trail survives order deletion.
type OrderHistoryEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	OrderNumber string     `gorm:"type:varchar(100);not null;index" json:"order_number"`
	EventType   string     `gorm:"type:varchar(50);not null" json:"event_type"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	AmountDelta float64    `gorm:"type:decimal(10,2);not null;default:0" json:"amount_delta"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}
