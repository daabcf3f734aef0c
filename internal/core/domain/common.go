package domain

import "time"

// DefaultCurrency is the single currency used across the whole system.
// Balances and amounts are tracked to centavo (2 decimal places) precision.
const DefaultCurrency = "PHP"

// CurrencyPrecision is the number of decimal places stored for money amounts.
const CurrencyPrecision = 2

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}
