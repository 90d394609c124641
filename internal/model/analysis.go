package model

import "github.com/shopspring/decimal"

// AnalysisReport is a technical analysis summary. Every field is optional.
type AnalysisReport struct {
	Trend          *string          `json:"trend,omitempty"`
	Support        *decimal.Decimal `json:"support,omitempty"`
	Resistance     *decimal.Decimal `json:"resistance,omitempty"`
	Recommendation *string          `json:"recommendation,omitempty"`
}
