package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/pricing"
	"github.com/RF-YVY/HustleNest/internal/repository"
)

// DefaultForecastWindowDays is the trailing sales window used when the
// caller does not ask for a specific one.
const DefaultForecastWindowDays = 30

// reorderHorizonDays marks a product as needing reorder when its projected
// stockout falls within three weeks.
const reorderHorizonDays = 21

type ForecastService interface {
	// Forecast projects stockout horizons over a trailing window of sales.
	// limit <= 0 returns every product with recorded activity.
	Forecast(ctx context.Context, windowDays, limit int) ([]model.ProductForecast, error)
}

type forecastService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	settings SettingsService
}

func NewForecastService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	settings SettingsService,
) ForecastService {
	return &forecastService{products: products, orders: orders, settings: settings}
}

func (s *forecastService) Forecast(ctx context.Context, windowDays, limit int) ([]model.ProductForecast, error) {
	if windowDays <= 0 {
		windowDays = DefaultForecastWindowDays
	}

	appSettings, err := s.settings.AppSettings(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list products")
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	sold, err := s.orders.QuantitySoldSince(ctx, since)
	if err != nil {
		return nil, apperr.Storage(err, "failed to aggregate sales window")
	}

	forecasts := make([]model.ProductForecast, 0, len(products))
	for i := range products {
		product := &products[i]
		quantity := sold[product.SKU]

		productID := product.ID
		forecast := model.ProductForecast{
			ProductID:      &productID,
			SKU:            product.SKU,
			Name:           product.Name,
			Status:         product.Status,
			InventoryCount: product.InventoryCount,
		}

		if quantity > 0 {
			avgDaily := float64(quantity) / float64(windowDays)
			forecast.AverageWeeklySales = pricing.Round2(avgDaily * 7)
			days := int(math.Ceil(float64(product.InventoryCount) / avgDaily))
			if days < 0 {
				days = 0
			}
			forecast.DaysUntilStockout = &days
		}

		forecast.NeedsReorder = product.InventoryCount <= appSettings.LowInventoryThreshold ||
			(forecast.DaysUntilStockout != nil && *forecast.DaysUntilStockout <= reorderHorizonDays)

		forecasts = append(forecasts, forecast)
	}

	// Most urgent first: known horizons before unknown, nearer stockouts
	// first, then higher weekly velocity.
	sort.SliceStable(forecasts, func(i, j int) bool {
		a, b := forecasts[i], forecasts[j]
		switch {
		case a.DaysUntilStockout != nil && b.DaysUntilStockout == nil:
			return true
		case a.DaysUntilStockout == nil && b.DaysUntilStockout != nil:
			return false
		case a.DaysUntilStockout != nil && b.DaysUntilStockout != nil &&
			*a.DaysUntilStockout != *b.DaysUntilStockout:
			return *a.DaysUntilStockout < *b.DaysUntilStockout
		}
		if a.AverageWeeklySales != b.AverageWeeklySales {
			return a.AverageWeeklySales > b.AverageWeeklySales
		}
		return a.SKU < b.SKU
	})

	if limit > 0 && len(forecasts) > limit {
		forecasts = forecasts[:limit]
	}
	return forecasts, nil
}
