package model

import (
	"time"

	"github.com/google/uuid"
)

// View-model records computed on demand by the reporting and forecast
// engines. None of these are persisted.

// ProductSalesSummary aggregates non-cancelled order lines per product label.
type ProductSalesSummary struct {
	ProductName   string  `json:"product_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
	TotalCost     float64 `json:"total_cost"`
	TotalProfit   float64 `json:"total_profit"`
	Margin        float64 `json:"margin"`
}

// CustomerSalesSummary aggregates non-cancelled orders per customer.
type CustomerSalesSummary struct {
	CustomerName string  `json:"customer_name"`
	OrderCount   int     `json:"order_count"`
	TotalSales   float64 `json:"total_sales"`
	AverageOrder float64 `json:"average_order"`
	TotalCost    float64 `json:"total_cost"`
	TotalProfit  float64 `json:"total_profit"`
	Margin       float64 `json:"margin"`
}

// OutstandingOrder is a not-yet-shipped, not-cancelled order header.
type OutstandingOrder struct {
	ID                   uuid.UUID  `json:"id"`
	OrderNumber          string     `json:"order_number"`
	CustomerName         string     `json:"customer_name"`
	OrderDate            time.Time  `json:"order_date"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
	TotalAmount          float64    `json:"total_amount"`
	TaxAmount            float64    `json:"tax_amount"`
	TaxIncludedInTotal   bool       `json:"tax_included_in_total"`
	Status               string     `json:"status"`
	Carrier              string     `json:"carrier"`
	TrackingNumber       string     `json:"tracking_number"`
	Notes                string     `json:"notes"`
}

// DisplayTotal mirrors Order.DisplayTotal for the detached header.
func (o OutstandingOrder) DisplayTotal() float64 {
	if o.TaxIncludedInTotal {
		return o.TotalAmount + o.TaxAmount
	}
	return o.TotalAmount
}

// CompletedOrder is a shipped order header.
type CompletedOrder struct {
	ID                   uuid.UUID  `json:"id"`
	OrderNumber          string     `json:"order_number"`
	CustomerName         string     `json:"customer_name"`
	OrderDate            time.Time  `json:"order_date"`
	ShipDate             *time.Time `json:"ship_date"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
	TotalAmount          float64    `json:"total_amount"`
	TaxAmount            float64    `json:"tax_amount"`
	TaxIncludedInTotal   bool       `json:"tax_included_in_total"`
	Status               string     `json:"status"`
	Carrier              string     `json:"carrier"`
	TrackingNumber       string     `json:"tracking_number"`
	Notes                string     `json:"notes"`
}

// DisplayTotal mirrors Order.DisplayTotal for the detached header.
func (o CompletedOrder) DisplayTotal() float64 {
	if o.TaxIncludedInTotal {
		return o.TotalAmount + o.TaxAmount
	}
	return o.TotalAmount
}

// OrderReportRow is one date-ranged report line with per-order financials and
// a rendered products string.
type OrderReportRow struct {
	OrderID              uuid.UUID  `json:"order_id"`
	OrderNumber          string     `json:"order_number"`
	CustomerName         string     `json:"customer_name"`
	OrderDate            time.Time  `json:"order_date"`
	ShipDate             *time.Time `json:"ship_date"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
	Status               string     `json:"status"`
	Carrier              string     `json:"carrier"`
	TrackingNumber       string     `json:"tracking_number"`
	Notes                string     `json:"notes"`
	ItemCount            int        `json:"item_count"`
	TotalAmount          float64    `json:"total_amount"`
	TotalCost            float64    `json:"total_cost"`
	Profit               float64    `json:"profit"`
	Margin               float64    `json:"margin"`
	FreebieCost          float64    `json:"freebie_cost"`
	TaxRate              float64    `json:"tax_rate"`
	TaxAmount            float64    `json:"tax_amount"`
	TaxIncludedInTotal   bool       `json:"tax_included_in_total"`
	Products             string     `json:"products"`
	AdjustmentSummary    string     `json:"adjustment_summary"`
}

// NetRevenue is the row total minus the cost attributable to freebies.
func (r OrderReportRow) NetRevenue() float64 {
	return r.TotalAmount - r.FreebieCost
}

// DisplayTotal mirrors Order.DisplayTotal for the report row.
func (r OrderReportRow) DisplayTotal() float64 {
	if r.TaxIncludedInTotal {
		return r.TotalAmount + r.TaxAmount
	}
	return r.TotalAmount
}

// ProductForecast projects a stockout horizon from a trailing sales window.
// DaysUntilStockout is nil when the product had no sales in the window.
type ProductForecast struct {
	ProductID          *uuid.UUID `json:"product_id"`
	SKU                string     `json:"sku"`
	Name               string     `json:"name"`
	Status             string     `json:"status"`
	InventoryCount     int        `json:"inventory_count"`
	AverageWeeklySales float64    `json:"average_weekly_sales"`
	DaysUntilStockout  *int       `json:"days_until_stockout"`
	NeedsReorder       bool       `json:"needs_reorder"`
}

// DashboardSnapshot is the full dashboard payload.
type DashboardSnapshot struct {
	TotalSales         float64                `json:"total_sales"`
	TotalCost          float64                `json:"total_cost"`
	TotalProfit        float64                `json:"total_profit"`
	ProfitMargin       float64                `json:"profit_margin"`
	NetSales           float64                `json:"net_sales"`
	FreebieCost        float64                `json:"freebie_cost"`
	TaxTotal           float64                `json:"tax_total"`
	OutstandingOrders  int                    `json:"outstanding_orders"`
	OutstandingDetails []OutstandingOrder     `json:"outstanding_details"`
	CompletedOrders    int                    `json:"completed_orders"`
	CompletedDetails   []CompletedOrder       `json:"completed_details"`
	ProductBreakdown   []ProductSalesSummary  `json:"product_breakdown"`
	TopCustomers       []CustomerSalesSummary `json:"top_customers"`
	InventoryForecast  []ProductForecast      `json:"inventory_forecast"`
}

// Notification severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// NotificationMessage is a dashboard alert derived from forecasts and
// outstanding order target dates.
type NotificationMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}
