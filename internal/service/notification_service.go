package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/repository"
)

type NotificationService interface {
	// Notifications derives the current alert list from inventory forecasts
	// and outstanding order target dates. Nothing is persisted.
	Notifications(ctx context.Context) ([]model.NotificationMessage, error)
}

type notificationService struct {
	orders   repository.OrderRepository
	forecast ForecastService
}

func NewNotificationService(orders repository.OrderRepository, forecast ForecastService) NotificationService {
	return &notificationService{orders: orders, forecast: forecast}
}

func (s *notificationService) Notifications(ctx context.Context) ([]model.NotificationMessage, error) {
	var messages []model.NotificationMessage

	forecasts, err := s.forecast.Forecast(ctx, DefaultForecastWindowDays, 0)
	if err != nil {
		return nil, err
	}
	for _, forecast := range forecasts {
		if !forecast.NeedsReorder {
			continue
		}
		severity := model.SeverityWarning
		if forecast.InventoryCount == 0 {
			severity = model.SeverityCritical
		}
		message := fmt.Sprintf("%s is low on stock (%d remaining).", forecast.SKU, forecast.InventoryCount)
		if forecast.DaysUntilStockout != nil {
			message = fmt.Sprintf("%s is low on stock (%d remaining, about %d days left).",
				forecast.SKU, forecast.InventoryCount, *forecast.DaysUntilStockout)
		}
		messages = append(messages, model.NotificationMessage{
			Category: "inventory",
			Message:  message,
			Severity: severity,
		})
	}

	outstanding, err := s.orders.ListOutstanding(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list outstanding orders")
	}
	today := startOfDay(time.Now())
	for i := range outstanding {
		order := &outstanding[i]
		if order.TargetCompletionDate == nil {
			continue
		}
		target := startOfDay(*order.TargetCompletionDate)
		switch {
		case target.Before(today):
			messages = append(messages, model.NotificationMessage{
				Category: "orders",
				Message:  fmt.Sprintf("Order %s is past its target completion date.", order.OrderNumber),
				Severity: model.SeverityCritical,
			})
		case target.Equal(today):
			messages = append(messages, model.NotificationMessage{
				Category: "orders",
				Message:  fmt.Sprintf("Order %s is due today.", order.OrderNumber),
				Severity: model.SeverityWarning,
			})
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i], messages[j]
		if ra, rb := severityRank(a.Severity), severityRank(b.Severity); ra != rb {
			return ra < rb
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Message < b.Message
	})
	return messages, nil
}

func severityRank(severity string) int {
	switch severity {
	case model.SeverityCritical:
		return 0
	case model.SeverityWarning:
		return 1
	default:
		return 2
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
