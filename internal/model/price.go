package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest price of one instrument.
type Quote struct {
	Price     decimal.Decimal  `json:"price"`
	Change24h *decimal.Decimal `json:"change_24h,omitempty"` // nil when the backend omits it
}

// Change returns the 24h change, zero when absent.
func (q Quote) Change() decimal.Decimal {
	if q.Change24h == nil {
		return decimal.Zero
	}
	return *q.Change24h
}

// PriceSnapshot maps instrument symbol to its latest quote.
type PriceSnapshot map[string]Quote

// Health is the backend health report.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthyStatus is the only status value treated as reachable.
const HealthyStatus = "healthy"

// Healthy reports whether the backend declared itself healthy.
func (h *Health) Healthy() bool {
	return h != nil && h.Status == HealthyStatus
}
