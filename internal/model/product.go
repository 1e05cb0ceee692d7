package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CostComponent is a named extra cost added on top of a product's base unit
// cost (packaging, shipping material, commission fees and the like).
type CostComponent struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// CostComponents serializes as a JSON array in a single column. Order items
// snapshot the product's components at add time, so the two never share a row.
type CostComponents []CostComponent

// Sum returns the combined amount of all components.
func (c CostComponents) Sum() float64 {
	var total float64
	for _, component := range c {
		total += component.Amount
	}
	return total
}

// Value implements driver.Valuer for gorm persistence.
func (c CostComponents) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner. Malformed payloads decode to an empty list
// rather than failing the whole row read.
func (c *CostComponents) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported cost components type %T", value)
	}
	if len(raw) == 0 {
		*c = nil
		return nil
	}
	var components []CostComponent
	if err := json.Unmarshal(raw, &components); err != nil {
		*c = nil
		return nil
	}
	filtered := components[:0]
	for _, component := range components {
		if component.Label == "" && component.Amount == 0 {
			continue
		}
		filtered = append(filtered, component)
	}
	*c = filtered
	return nil
}

// Product is a sellable SKU with on-hand inventory.
type Product struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU               string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name              string         `gorm:"type:varchar(255);not null" json:"name"`
	Description       string         `gorm:"type:text;not null;default:''" json:"description"`
	PhotoPath         string         `gorm:"type:text;not null;default:''" json:"photo_path"`
	InventoryCount    int            `gorm:"not null;default:0" json:"inventory_count"`
	IsComplete        bool           `gorm:"not null;default:false" json:"is_complete"`
	Status            string         `gorm:"type:varchar(50);not null;default:'Ordered'" json:"status"`
	BaseUnitCost      float64        `gorm:"type:decimal(10,2);not null;default:0" json:"base_unit_cost"`
	DefaultUnitPrice  float64        `gorm:"type:decimal(10,2);not null;default:0" json:"default_unit_price"`
	PricingComponents CostComponents `gorm:"type:jsonb" json:"pricing_components"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// AdditionalUnitCost is the sum of the extra cost components.
func (p *Product) AdditionalUnitCost() float64 {
	return p.PricingComponents.Sum()
}

// TotalUnitCost is base cost plus all extra components.
func (p *Product) TotalUnitCost() float64 {
	return p.BaseUnitCost + p.AdditionalUnitCost()
}
