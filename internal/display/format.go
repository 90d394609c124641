// Package display turns fetched market data into display-ready strings.
package display

import (
	"strings"
	"time"

	"CryptoBoard/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Change tones.
const (
	TonePositive = "positive"
	ToneNegative = "negative"
)

// Analysis placeholders used when a report field is absent.
const (
	UnknownTrend          = "unknown"
	UnavailableLevel      = "N/A"
	NoRecommendation      = "none"
	lastUpdatedLabel      = "Last updated: "
	lastUpdatedTimeLayout = "15:04:05"
)

// PriceLine is one instrument's price row.
type PriceLine struct {
	Price  string
	Change string
	Tone   string
}

// AnalysisPanel is the rendered analysis report of an instrument page.
type AnalysisPanel struct {
	Trend          string
	Support        string
	Resistance     string
	Recommendation string
}

// FormatPrice renders a price as dollars with grouped thousands and at most two decimals.
func FormatPrice(price decimal.Decimal) string {
	rounded := price.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + "$" + humanize.CommafWithDigits(rounded.InexactFloat64(), 2)
}

// FormatChange renders a 24h change with an explicit sign and two decimals.
// A nil change is treated as zero; zero counts as positive.
func FormatChange(change *decimal.Decimal) (text, tone string) {
	c := decimal.Zero
	if change != nil {
		c = *change
	}
	fixed := c.StringFixed(2)
	if c.IsNegative() {
		if !strings.HasPrefix(fixed, "-") {
			fixed = "-" + fixed
		}
		return fixed + "%", ToneNegative
	}
	return "+" + fixed + "%", TonePositive
}

// FormatQuote builds the price row for a quote.
func FormatQuote(q model.Quote) PriceLine {
	change, tone := FormatChange(q.Change24h)
	return PriceLine{Price: FormatPrice(q.Price), Change: change, Tone: tone}
}

// FormatLastUpdated renders the last-updated label for t in local time.
func FormatLastUpdated(t time.Time) string {
	return lastUpdatedLabel + t.Local().Format(lastUpdatedTimeLayout)
}

// FormatAnalysis renders a report, falling back independently per field.
func FormatAnalysis(r *model.AnalysisReport) AnalysisPanel {
	p := AnalysisPanel{
		Trend:          UnknownTrend,
		Support:        UnavailableLevel,
		Resistance:     UnavailableLevel,
		Recommendation: NoRecommendation,
	}
	if r == nil {
		return p
	}
	if r.Trend != nil && *r.Trend != "" {
		p.Trend = *r.Trend
	}
	if r.Support != nil {
		p.Support = FormatPrice(*r.Support)
	}
	if r.Resistance != nil {
		p.Resistance = FormatPrice(*r.Resistance)
	}
	if r.Recommendation != nil && *r.Recommendation != "" {
		p.Recommendation = *r.Recommendation
	}
	return p
}
