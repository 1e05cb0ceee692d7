package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/pricing"
	"github.com/RF-YVY/HustleNest/internal/repository"
)

const (
	dashboardCompletedLimit = 25
	dashboardTopLimit       = 10
)

type ReportService interface {
	// OrderReport renders one row per non-cancelled order inside the
	// inclusive date range; either bound may be nil.
	OrderReport(ctx context.Context, start, end *time.Time) ([]model.OrderReportRow, error)
	ProductSales(ctx context.Context, start, end *time.Time) ([]model.ProductSalesSummary, error)
	TopCustomers(ctx context.Context, start, end *time.Time, limit int) ([]model.CustomerSalesSummary, error)
	Dashboard(ctx context.Context) (*model.DashboardSnapshot, error)
}

type reportService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	forecast ForecastService
}

func NewReportService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	forecast ForecastService,
) ReportService {
	return &reportService{orders: orders, products: products, forecast: forecast}
}

func (s *reportService) OrderReport(ctx context.Context, start, end *time.Time) ([]model.OrderReportRow, error) {
	orders, err := s.orders.ListForReport(ctx, start, end)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load report orders")
	}
	liveNames, err := s.liveProductNames(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.OrderReportRow, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		rows = append(rows, model.OrderReportRow{
			OrderID:              order.ID,
			OrderNumber:          order.OrderNumber,
			CustomerName:         order.CustomerName,
			OrderDate:            order.OrderDate,
			ShipDate:             order.ShipDate,
			TargetCompletionDate: order.TargetCompletionDate,
			Status:               order.Status,
			Carrier:              order.Carrier,
			TrackingNumber:       order.TrackingNumber,
			Notes:                order.Notes,
			ItemCount:            len(order.Items),
			TotalAmount:          pricing.Round2(order.TotalAmount()),
			TotalCost:            pricing.Round2(order.TotalCost()),
			Profit:               pricing.Round2(order.TotalProfit()),
			Margin:               order.ProfitMargin(),
			FreebieCost:          pricing.Round2(freebieCost(order)),
			TaxRate:              order.TaxRate,
			TaxAmount:            order.TaxAmount,
			TaxIncludedInTotal:   order.TaxIncludedInTotal,
			Products:             renderProducts(order.Items, liveNames),
			AdjustmentSummary:    renderOrderAdjustments(order.Items, liveNames),
		})
	}
	return rows, nil
}

func (s *reportService) ProductSales(ctx context.Context, start, end *time.Time) ([]model.ProductSalesSummary, error) {
	orders, err := s.orders.ListForReport(ctx, start, end)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load report orders")
	}
	liveNames, err := s.liveProductNames(ctx)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]*model.ProductSalesSummary)
	for i := range orders {
		for j := range orders[i].Items {
			item := &orders[i].Items[j]
			label := productLabel(item, liveNames)
			summary, ok := byLabel[label]
			if !ok {
				summary = &model.ProductSalesSummary{ProductName: label}
				byLabel[label] = summary
			}
			summary.TotalQuantity += item.Quantity
			summary.TotalSales += item.LineTotal()
			summary.TotalCost += item.LineCost()
		}
	}

	summaries := make([]model.ProductSalesSummary, 0, len(byLabel))
	for _, summary := range byLabel {
		summary.TotalSales = pricing.Round2(summary.TotalSales)
		summary.TotalCost = pricing.Round2(summary.TotalCost)
		summary.TotalProfit = pricing.Round2(summary.TotalSales - summary.TotalCost)
		if summary.TotalSales != 0 {
			summary.Margin = summary.TotalProfit / summary.TotalSales
		}
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSales != summaries[j].TotalSales {
			return summaries[i].TotalSales > summaries[j].TotalSales
		}
		return summaries[i].ProductName < summaries[j].ProductName
	})
	return summaries, nil
}

func (s *reportService) TopCustomers(ctx context.Context, start, end *time.Time, limit int) ([]model.CustomerSalesSummary, error) {
	orders, err := s.orders.ListForReport(ctx, start, end)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load report orders")
	}

	byName := make(map[string]*model.CustomerSalesSummary)
	for i := range orders {
		order := &orders[i]
		name := strings.TrimSpace(order.CustomerName)
		if name == "" {
			continue
		}
		summary, ok := byName[name]
		if !ok {
			summary = &model.CustomerSalesSummary{CustomerName: name}
			byName[name] = summary
		}
		summary.OrderCount++
		summary.TotalSales += order.TotalAmount()
		summary.TotalCost += order.TotalCost()
	}

	summaries := make([]model.CustomerSalesSummary, 0, len(byName))
	for _, summary := range byName {
		summary.TotalSales = pricing.Round2(summary.TotalSales)
		summary.TotalCost = pricing.Round2(summary.TotalCost)
		summary.TotalProfit = pricing.Round2(summary.TotalSales - summary.TotalCost)
		if summary.OrderCount > 0 {
			summary.AverageOrder = pricing.Round2(summary.TotalSales / float64(summary.OrderCount))
		}
		if summary.TotalSales != 0 {
			summary.Margin = summary.TotalProfit / summary.TotalSales
		}
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSales != summaries[j].TotalSales {
			return summaries[i].TotalSales > summaries[j].TotalSales
		}
		return summaries[i].CustomerName < summaries[j].CustomerName
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*model.DashboardSnapshot, error) {
	orders, err := s.orders.ListForReport(ctx, nil, nil)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load orders")
	}

	var totalSales, totalCost, totalFreebieCost float64
	for i := range orders {
		totalSales += orders[i].TotalAmount()
		totalCost += orders[i].TotalCost()
		totalFreebieCost += freebieCost(&orders[i])
	}
	totalProfit := totalSales - totalCost
	netSales := totalSales - totalFreebieCost

	// Prefer margin on net sales; fall back to gross sales when every sale
	// was a freebie, then to zero.
	var margin float64
	switch {
	case netSales > 0:
		margin = totalProfit / netSales
	case totalSales > 0:
		margin = totalProfit / totalSales
	}

	taxTotal, err := s.orders.TaxTotal(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to sum tax")
	}

	outstanding, err := s.orders.ListOutstanding(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list outstanding orders")
	}
	completed, err := s.orders.ListCompleted(ctx, dashboardCompletedLimit)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list completed orders")
	}

	breakdown, err := s.ProductSales(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > dashboardTopLimit {
		breakdown = breakdown[:dashboardTopLimit]
	}
	customers, err := s.TopCustomers(ctx, nil, nil, dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	forecast, err := s.forecast.Forecast(ctx, DefaultForecastWindowDays, dashboardTopLimit)
	if err != nil {
		return nil, err
	}

	return &model.DashboardSnapshot{
		TotalSales:         pricing.Round2(totalSales),
		TotalCost:          pricing.Round2(totalCost),
		TotalProfit:        pricing.Round2(totalProfit),
		ProfitMargin:       margin,
		NetSales:           pricing.Round2(netSales),
		FreebieCost:        pricing.Round2(totalFreebieCost),
		TaxTotal:           pricing.Round2(taxTotal),
		OutstandingOrders:  len(outstanding),
		OutstandingDetails: outstandingHeaders(outstanding),
		CompletedOrders:    len(completed),
		CompletedDetails:   completedHeaders(completed),
		ProductBreakdown:   breakdown,
		TopCustomers:       customers,
		InventoryForecast:  forecast,
	}, nil
}

func (s *reportService) liveProductNames(ctx context.Context) (map[string]string, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list products")
	}
	names := make(map[string]string, len(products))
	for i := range products {
		names[products[i].SKU] = products[i].Name
	}
	return names, nil
}

// productLabel prefers "SKU - current product name" so renamed products
// still group together, falling back to the bare SKU and finally to the
// name snapshotted on the line.
func productLabel(item *model.OrderItem, liveNames map[string]string) string {
	sku := strings.TrimSpace(item.ProductSKU)
	if sku != "" {
		if name, ok := liveNames[sku]; ok && strings.TrimSpace(name) != "" {
			return fmt.Sprintf("%s - %s", sku, strings.TrimSpace(name))
		}
		return sku
	}
	return item.ProductName
}

func renderProducts(items []model.OrderItem, liveNames map[string]string) string {
	parts := make([]string, 0, len(items))
	for i := range items {
		item := &items[i]
		part := productLabel(item, liveNames)
		if desc := strings.TrimSpace(item.ProductDescription); desc != "" {
			part += " (" + desc + ")"
		}
		if adjustments := item.AdjustmentSummary(); adjustments != "" {
			part += " [" + adjustments + "]"
		}
		part += fmt.Sprintf(" x%d", item.Quantity)
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func renderOrderAdjustments(items []model.OrderItem, liveNames map[string]string) string {
	var parts []string
	for i := range items {
		item := &items[i]
		if adjustments := item.AdjustmentSummary(); adjustments != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", productLabel(item, liveNames), adjustments))
		}
	}
	return strings.Join(parts, "; ")
}

func freebieCost(order *model.Order) float64 {
	var total float64
	for i := range order.Items {
		if order.Items[i].IsFreebie {
			total += order.Items[i].LineCost()
		}
	}
	return total
}

func outstandingHeaders(orders []model.Order) []model.OutstandingOrder {
	headers := make([]model.OutstandingOrder, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		headers = append(headers, model.OutstandingOrder{
			ID:                   order.ID,
			OrderNumber:          order.OrderNumber,
			CustomerName:         order.CustomerName,
			OrderDate:            order.OrderDate,
			TargetCompletionDate: order.TargetCompletionDate,
			TotalAmount:          pricing.Round2(order.TotalAmount()),
			TaxAmount:            order.TaxAmount,
			TaxIncludedInTotal:   order.TaxIncludedInTotal,
			Status:               order.Status,
			Carrier:              order.Carrier,
			TrackingNumber:       order.TrackingNumber,
			Notes:                order.Notes,
		})
	}
	return headers
}

func completedHeaders(orders []model.Order) []model.CompletedOrder {
	headers := make([]model.CompletedOrder, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		headers = append(headers, model.CompletedOrder{
			ID:                   order.ID,
			OrderNumber:          order.OrderNumber,
			CustomerName:         order.CustomerName,
			OrderDate:            order.OrderDate,
			ShipDate:             order.ShipDate,
			TargetCompletionDate: order.TargetCompletionDate,
			TotalAmount:          pricing.Round2(order.TotalAmount()),
			TaxAmount:            order.TaxAmount,
			TaxIncludedInTotal:   order.TaxIncludedInTotal,
			Status:               order.Status,
			Carrier:              order.Carrier,
			TrackingNumber:       order.TrackingNumber,
			Notes:                order.Notes,
		})
	}
	return headers
}
