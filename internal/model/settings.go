package model

// Setting is one key/value row of the runtime business configuration.
type Setting struct {
	Key   string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}

// AppSettings is the typed view over the settings table. The lifecycle
// manager reads it once per operation; the only field it ever writes back is
// the order number counter.
type AppSettings struct {
	BusinessName          string  `json:"business_name"`
	LowInventoryThreshold int     `json:"low_inventory_threshold"`
	OrderNumberFormat     string  `json:"order_number_format"`
	OrderNumberNext       int     `json:"order_number_next"`
	TaxRatePercent        float64 `json:"tax_rate_percent"`
	TaxShowOnInvoice      bool    `json:"tax_show_on_invoice"`
	TaxAddToTotal         bool    `json:"tax_add_to_total"`
}
