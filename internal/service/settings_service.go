package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/pricing"
	"github.com/RF-YVY/HustleNest/internal/repository"
	"github.com/RF-YVY/HustleNest/internal/sequence"
)

// Settings keys.
const (
	settingBusinessName          = "business_name"
	settingLowInventoryThreshold = "low_inventory_threshold"
	settingOrderNumberFormat     = "order_number_format"
	settingOrderNumberNext       = "order_number_next"
	settingTaxRatePercent        = "tax_rate_percent"
	settingTaxShowOnInvoice      = "tax_show_on_invoice"
	settingTaxAddToTotal         = "tax_add_to_total"
)

// Defaults applied when a key has never been written.
const (
	defaultBusinessName          = "Wicker Made Sales"
	defaultLowInventoryThreshold = 5
	defaultOrderNumberFormat     = "ORD-%04d"
)

type SettingsService interface {
	AppSettings(ctx context.Context) (model.AppSettings, error)
	UpdateAppSettings(ctx context.Context, settings model.AppSettings) (model.AppSettings, error)

	// sequence.Store
	NumberFormat(ctx context.Context) (string, int, error)
	SetNextNumber(ctx context.Context, next int) error
}

type settingsService struct {
	settings repository.SettingsRepository
}

func NewSettingsService(settings repository.SettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

var _ sequence.Store = (SettingsService)(nil)

func (s *settingsService) AppSettings(ctx context.Context) (model.AppSettings, error) {
	values, err := s.settings.All(ctx)
	if err != nil {
		return model.AppSettings{}, apperr.Storage(err, "failed to load settings")
	}

	out := model.AppSettings{
		BusinessName:          defaultBusinessName,
		LowInventoryThreshold: defaultLowInventoryThreshold,
		OrderNumberFormat:     defaultOrderNumberFormat,
		OrderNumberNext:       1,
	}
	if v, ok := values[settingBusinessName]; ok && strings.TrimSpace(v) != "" {
		out.BusinessName = strings.TrimSpace(v)
	}
	if v, ok := values[settingLowInventoryThreshold]; ok {
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(v)); parseErr == nil && parsed >= 0 {
			out.LowInventoryThreshold = parsed
		}
	}
	if v, ok := values[settingOrderNumberFormat]; ok && strings.TrimSpace(v) != "" {
		out.OrderNumberFormat = strings.TrimSpace(v)
	}
	if v, ok := values[settingOrderNumberNext]; ok {
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(v)); parseErr == nil && parsed >= 1 {
			out.OrderNumberNext = parsed
		}
	}
	if v, ok := values[settingTaxRatePercent]; ok {
		if parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(v), 64); parseErr == nil {
			out.TaxRatePercent = pricing.ClampRate(parsed)
		}
	}
	out.TaxShowOnInvoice = parseBool(values[settingTaxShowOnInvoice])
	out.TaxAddToTotal = parseBool(values[settingTaxAddToTotal])

	return out, nil
}

func (s *settingsService) UpdateAppSettings(ctx context.Context, settings model.AppSettings) (model.AppSettings, error) {
	threshold := settings.LowInventoryThreshold
	if threshold < 0 {
		threshold = 0
	}
	next := settings.OrderNumberNext
	if next < 1 {
		next = 1
	}
	format := strings.TrimSpace(settings.OrderNumberFormat)
	if format == "" {
		format = defaultOrderNumberFormat
	}

	writes := map[string]string{
		settingBusinessName:          strings.TrimSpace(settings.BusinessName),
		settingLowInventoryThreshold: strconv.Itoa(threshold),
		settingOrderNumberFormat:     format,
		settingOrderNumberNext:       strconv.Itoa(next),
		settingTaxRatePercent:        strconv.FormatFloat(pricing.ClampRate(settings.TaxRatePercent), 'f', -1, 64),
		settingTaxShowOnInvoice:      strconv.FormatBool(settings.TaxShowOnInvoice),
		settingTaxAddToTotal:         strconv.FormatBool(settings.TaxAddToTotal),
	}
	for key, value := range writes {
		if err := s.settings.Set(ctx, key, value); err != nil {
			return model.AppSettings{}, apperr.Storage(err, "failed to store setting %s", key)
		}
	}
	return s.AppSettings(ctx)
}

func (s *settingsService) NumberFormat(ctx context.Context) (string, int, error) {
	settings, err := s.AppSettings(ctx)
	if err != nil {
		return "", 0, err
	}
	return settings.OrderNumberFormat, settings.OrderNumberNext, nil
}

func (s *settingsService) SetNextNumber(ctx context.Context, next int) error {
	if next < 1 {
		next = 1
	}
	if err := s.settings.Set(ctx, settingOrderNumberNext, strconv.Itoa(next)); err != nil {
		return apperr.Storage(err, "failed to advance order number counter")
	}
	return nil
}

func parseBool(raw string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && parsed
}
