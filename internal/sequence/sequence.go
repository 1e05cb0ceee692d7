// Package sequence generates order numbers. Two strategies coexist: a
// format-based counter persisted in settings (preview/reserve), and a legacy
// prefix scan that derives the next number from the greatest existing number
// sharing a SKU's alphabetic prefix.
package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPrefix is used when a SKU or prefix carries no alphabetic run.
const DefaultPrefix = "ORD"

// DefaultPadding is the numeric width of prefix-scan numbers.
const DefaultPadding = 4

var (
	alphaRunPattern    = regexp.MustCompile(`[A-Z]+`)
	trailingIntPattern = regexp.MustCompile(`(\d+)$`)
)

// Store persists the numbering format string and the next counter value.
type Store interface {
	NumberFormat(ctx context.Context) (format string, next int, err error)
	SetNextNumber(ctx context.Context, next int) error
}

// PrefixScanner reports the greatest persisted order number sharing a prefix.
type PrefixScanner interface {
	MaxNumberForPrefix(ctx context.Context, prefix string) (string, error)
}

// Generator produces order numbers from the persisted counter or from a
// prefix scan over existing orders.
type Generator struct {
	store  Store
	orders PrefixScanner
}

func New(store Store, orders PrefixScanner) *Generator {
	return &Generator{store: store, orders: orders}
}

// Preview renders the next number without consuming it. Calling it any
// number of times returns the same value until a Reserve happens.
func (g *Generator) Preview(ctx context.Context) (string, error) {
	format, next, err := g.store.NumberFormat(ctx)
	if err != nil {
		return "", err
	}
	return Render(format, next), nil
}

// Reserve renders the next number and advances the counter by exactly one.
func (g *Generator) Reserve(ctx context.Context) (string, error) {
	format, next, err := g.store.NumberFormat(ctx)
	if err != nil {
		return "", err
	}
	if err := g.store.SetNextNumber(ctx, next+1); err != nil {
		return "", err
	}
	return Render(format, next), nil
}

// AdvancePast inspects an explicitly supplied order number and, when its
// trailing integer run is at or past the persisted counter, moves the
// counter beyond it so future reservations cannot collide.
func (g *Generator) AdvancePast(ctx context.Context, number string) error {
	value, ok := TrailingInt(number)
	if !ok {
		return nil
	}
	_, next, err := g.store.NumberFormat(ctx)
	if err != nil {
		return err
	}
	if value >= next {
		return g.store.SetNextNumber(ctx, value+1)
	}
	return nil
}

// ForSKU derives the next number from the SKU's leading alphabetic run.
func (g *Generator) ForSKU(ctx context.Context, sku string) (string, error) {
	return g.FromPrefix(ctx, AlphaPrefix(sku))
}

// FromPrefix scans persisted orders for the greatest number sharing the
// prefix, parses its trailing integer and returns prefix + (max+1), padded.
func (g *Generator) FromPrefix(ctx context.Context, prefix string) (string, error) {
	normalized := AlphaPrefix(prefix)
	last, err := g.orders.MaxNumberForPrefix(ctx, normalized)
	if err != nil {
		return "", err
	}
	lastValue := 0
	if last != "" {
		if value, ok := TrailingInt(last[len(normalized):]); ok {
			lastValue = value
		}
	}
	return fmt.Sprintf("%s%0*d", normalized, DefaultPadding, lastValue+1), nil
}

// Render substitutes the counter into the format string. The format is a
// fmt verb string such as "ORD-%04d"; anything that fails to render a clean
// number falls back to a 6-digit zero-padded integer.
func Render(format string, next int) string {
	if !strings.Contains(format, "%") {
		return fallback(next)
	}
	rendered := fmt.Sprintf(format, next)
	if strings.Contains(rendered, "%!") || !strings.Contains(rendered, strconv.Itoa(next)) {
		return fallback(next)
	}
	return rendered
}

func fallback(next int) string {
	return fmt.Sprintf("%06d", next)
}

// AlphaPrefix extracts the first alphabetic run of a value, uppercased,
// defaulting to "ORD".
func AlphaPrefix(value string) string {
	match := alphaRunPattern.FindString(strings.ToUpper(value))
	if match == "" {
		return DefaultPrefix
	}
	return match
}

// TrailingInt parses the trailing digit run of a value.
func TrailingInt(value string) (int, bool) {
	match := trailingIntPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	parsed, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return parsed, true
}
