package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Order status vocabulary. The list is a suggestion, not a closed enum:
// unknown values are accepted and title-cased so operator-entered statuses
// survive round trips.
const (
	OrderStatusReceived    = "Received"
	OrderStatusPaid        = "Paid"
	OrderStatusProcessing  = "Processing"
	OrderStatusReadyToShip = "Ready to Ship"
	OrderStatusShipped     = "Shipped"
	OrderStatusCancelled   = "Cancelled"
)

// Product status vocabulary, same open-set rules as order statuses.
const (
	ProductStatusOrdered      = "Ordered"
	ProductStatusAvailable    = "Available"
	ProductStatusOutOfStock   = "Out of Stock"
	ProductStatusDiscontinued = "Discontinued"
)

var orderStatuses = []string{
	OrderStatusReceived,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusReadyToShip,
	OrderStatusShipped,
	OrderStatusCancelled,
}

var productStatuses = []string{
	ProductStatusOrdered,
	ProductStatusAvailable,
	ProductStatusOutOfStock,
	ProductStatusDiscontinued,
}

// OrderStatuses returns the suggested order status options.
func OrderStatuses() []string {
	out := make([]string, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ProductStatuses returns the suggested product status options.
func ProductStatuses() []string {
	out := make([]string, len(productStatuses))
	copy(out, productStatuses)
	return out
}

// NormalizeOrderStatus maps free text onto the canonical spelling of a known
// status, falling back to a title-cased copy of the input. Empty input maps
// to the first suggested status.
func NormalizeOrderStatus(status string) string {
	return normalizeStatus(status, orderStatuses)
}

// NormalizeProductStatus is NormalizeOrderStatus for product statuses.
func NormalizeProductStatus(status string) string {
	return normalizeStatus(status, productStatuses)
}

func normalizeStatus(status string, options []string) string {
	candidate := strings.TrimSpace(status)
	if candidate == "" {
		return options[0]
	}
	for _, option := range options {
		if strings.EqualFold(candidate, option) {
			return option
		}
	}
	return cases.Title(language.English).String(strings.ToLower(candidate))
}

// StatusIs compares a stored status against a canonical literal without
// caring about case. Reporting filters rely on this exact comparison.
func StatusIs(status, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(status), canonical)
}
