package service

import (
	"context"
	"testing"

	"github.com/RF-YVY/HustleNest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppSettingsDefaults(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	settings, err := svc.AppSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Wicker Made Sales", settings.BusinessName)
	assert.Equal(t, 5, settings.LowInventoryThreshold)
	assert.Equal(t, "ORD-%04d", settings.OrderNumberFormat)
	assert.Equal(t, 1, settings.OrderNumberNext)
	assert.Equal(t, 0.0, settings.TaxRatePercent)
	assert.False(t, settings.TaxAddToTotal)
}

func TestUpdateAppSettingsClampsAndRoundTrips(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	saved, err := svc.UpdateAppSettings(context.Background(), model.AppSettings{
		BusinessName:          "  River Goods  ",
		LowInventoryThreshold: -3,
		OrderNumberFormat:     "",
		OrderNumberNext:       0,
		TaxRatePercent:        130,
		TaxAddToTotal:         true,
	})
	require.NoError(t, err)

	assert.Equal(t, "River Goods", saved.BusinessName)
	assert.Equal(t, 0, saved.LowInventoryThreshold)
	assert.Equal(t, "ORD-%04d", saved.OrderNumberFormat)
	assert.Equal(t, 1, saved.OrderNumberNext)
	assert.Equal(t, 100.0, saved.TaxRatePercent)
	assert.True(t, saved.TaxAddToTotal)

	reloaded, err := svc.AppSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, reloaded)
}

func TestSettingsServeAsSequenceStore(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	format, next, err := svc.NumberFormat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-%04d", format)
	assert.Equal(t, 1, next)

	require.NoError(t, svc.SetNextNumber(context.Background(), 42))
	_, next, err = svc.NumberFormat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, next)
}
